package ledgerdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mainframe-market/mfsim/sim"
)

func sampleReport() *sim.Report {
	day := sim.Date(2020, time.January, 11)
	return &sim.Report{
		Start: sim.Date(2020, time.January, 1),
		End:   sim.Date(2020, time.July, 1),
		Ticks: 182,
		Families: []sim.FamilyReport{
			{
				Name: "Z1", Available: false, Volume: 3, Buyers: 2,
				Transactions: []sim.Transaction{
					{Buyer: "enterprise_0", Family: "Z1", Volume: 2, Timestamp: day},
					{Buyer: "enterprise_1", Family: "Z1", Volume: 1, Timestamp: day},
				},
			},
			{Name: "Z2", Available: true},
		},
	}
}

func TestSaveReport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "ledger.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	runID := uuid.NewString()
	require.NoError(t, db.SaveReport(ctx, runID, 42, sampleReport()))

	ids, err := db.RunIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{runID}, ids)

	fams, err := db.FamilyVolumes(ctx, runID)
	require.NoError(t, err)
	require.Len(t, fams, 2)
	assert.Equal(t, FamilyVolume{Name: "Z1", Available: false, Volume: 3, Buyers: 2}, fams[0])
	assert.Equal(t, FamilyVolume{Name: "Z2", Available: true}, fams[1])

	n, err := db.TransactionCount(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSaveReport_DuplicateRunIDRollsBack(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "ledger.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	runID := uuid.NewString()
	require.NoError(t, db.SaveReport(ctx, runID, 1, sampleReport()))
	assert.Error(t, db.SaveReport(ctx, runID, 2, sampleReport()))

	n, err := db.TransactionCount(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "failed second save must not add rows")
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
