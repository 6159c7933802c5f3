package sim

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := Date(y, m, d)
	return &t
}

func simplePlayer(q, p float64, maxStagnancy, copies int) PlayerSpec {
	return PlayerSpec{
		Copies: copies,
		Policy: PolicySpec{
			Kind:   PolicySimpleMarkov,
			Simple: SimpleMarkovParams{BuyFirstProbability: q, RenewProbability: p, MaxStagnancy: maxStagnancy},
		},
	}
}

func TestBuildWorld_SingleFamilyEndToEnd(t *testing.T) {
	// GIVEN one family released 2020-01-10, withdrawn 2020-06-01, and a certain buyer
	w, err := BuildWorld(Scenario{
		Start:   jan1,
		Seed:    7,
		Players: []PlayerSpec{simplePlayer(1, 1, 1, 1)},
		Lifecycles: []FamilyLifecycle{
			{Name: "Z1", Release: jan10, Withdrawal: datePtr(2020, time.June, 1)},
		},
	})
	require.NoError(t, err)

	// WHEN run to the end of the year
	w.RunUntil(Date(2020, time.December, 31))

	// THEN exactly one unit was bought the day after release and the family is gone
	txs := w.Transactions("Z1")
	require.Len(t, txs, 1)
	assert.Equal(t, Transaction{Buyer: "enterprise_0", Family: "Z1", Volume: 1, Timestamp: jan11}, txs[0])

	p, ok := w.Product("Z1")
	require.True(t, ok)
	assert.Equal(t, 1, p.Volume)
	assert.False(t, p.Available)

	err = w.RegisterAcquisition("enterprise_0", "Z1", 1)
	assert.True(t, errors.Is(err, ErrWithdrawnProduct))
}

func TestBuildWorld_GrowingEngagesWithInitSize(t *testing.T) {
	w, err := BuildWorld(Scenario{
		Start: jan1,
		Seed:  1,
		Players: []PlayerSpec{{Policy: PolicySpec{
			Kind:    PolicyGrowingMarkov,
			Growing: GrowingMarkovParams{InitSize: 3, Growth: 1, PEngage: 1},
		}}},
		Lifecycles: []FamilyLifecycle{{Name: "A", Release: jan10}},
	})
	require.NoError(t, err)
	w.RunUntil(Date(2020, time.February, 15))

	txs := w.Transactions("A")
	require.Len(t, txs, 1)
	assert.Equal(t, 3, txs[0].Volume)
	assert.Equal(t, Date(2020, time.February, 1), txs[0].Timestamp)

	g, ok := w.Enterprises()[0].Policy().(*GrowingMarkov)
	require.True(t, ok)
	assert.Equal(t, 3, g.Size())
}

func TestBuildWorld_CopiesAndIDs(t *testing.T) {
	w, err := BuildWorld(Scenario{
		Start:   jan1,
		Players: []PlayerSpec{simplePlayer(0.5, 0.5, 1, 0), simplePlayer(0.5, 0.5, 1, 3)},
	})
	require.NoError(t, err)

	var ids []string
	for _, e := range w.Enterprises() {
		ids = append(ids, e.ID())
	}
	assert.Equal(t, []string{"enterprise_0", "enterprise_1", "enterprise_2", "enterprise_3"}, ids)
}

func TestBuildWorld_Errors(t *testing.T) {
	tests := []struct {
		name string
		sc   Scenario
		want error
	}{
		{
			name: "unknown policy",
			sc:   Scenario{Start: jan1, Players: []PlayerSpec{{Policy: PolicySpec{Kind: "RANDOM"}}}},
			want: ErrUnknownPolicy,
		},
		{
			name: "release before start",
			sc: Scenario{
				Start:      jan10,
				Lifecycles: []FamilyLifecycle{{Name: "A", Release: jan1}},
			},
			want: ErrInvalidSchedule,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildWorld(tt.sc)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := BuildWorld(Scenario{Start: jan1, Players: []PlayerSpec{simplePlayer(1, 1, 1, -2)}})
	assert.Error(t, err)
}

func TestBuildWorld_SameSeedSameLedger(t *testing.T) {
	sc := Scenario{
		Start:      jan1,
		Seed:       99,
		Players:    []PlayerSpec{simplePlayer(0.4, 0.6, 2, 20)},
		Lifecycles: rollingLifecycles(8),
	}
	run := func() *Report {
		w, err := BuildWorld(sc)
		require.NoError(t, err)
		w.RunUntil(Date(2024, time.January, 1))
		return NewReport(w)
	}
	assert.Equal(t, run(), run())
}

func TestSeedTimeline_EndOfSupportMapping(t *testing.T) {
	lcs := []FamilyLifecycle{{
		Name:         "A",
		Release:      jan1,
		EndOfSupport: datePtr(2020, time.March, 1),
	}}

	tests := []struct {
		distinct bool
		want     EventKind
	}{
		{false, FamilyWithdrawn},
		{true, FamilyEndOfSupport},
	}
	for _, tt := range tests {
		w := NewWorld(jan1)
		_, rec := bindRecorder(w, "e0")
		require.NoError(t, SeedTimeline(w, lcs, tt.distinct))
		w.RunUntil(Date(2020, time.March, 5))

		got := rec.seen()[Date(2020, time.March, 2)]
		assert.Equal(t, []Event{{Kind: tt.want, Family: "A"}}, got, "distinct=%v", tt.distinct)

		p, _ := w.Product("A")
		assert.Equal(t, tt.distinct, p.Available, "end of support alone keeps the family available")
	}
}
