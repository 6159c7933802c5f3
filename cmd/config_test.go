package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/mainframe-market/mfsim/sim"
)

const testTimeline = `Family,GA,HWFM,EOS
Z1,2020-01-10,2020-06-01,
Z2,2021-03-01,2023-01-01,2024-01-01
`

const testConfig = `start_time: 2020-01-01
end_time: 2022-01-01
mainframes_timeline: timeline.csv
players:
  - ai: SIMPLE_MARKOV
    ncopies: 3
    ai_params: {buy_first_probability: 1, renew_probability: 0.5, max_stagnancy: 2}
  - ai: GROWING_MARKOV
    ai_params:
      init_size: 4
      growth: 2
      p_engage: 0.2
      p_grow: 0.05
      p_renew: 0.3
      p_resign: 0.1
`

// writeScenario writes config and timeline into a fresh directory and returns the config path.
func writeScenario(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "timeline.csv"), []byte(testTimeline), 0o644))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))
	return path
}

func TestLoadScenarioConfig_ToScenario(t *testing.T) {
	// GIVEN a scenario file next to its timeline
	path := writeScenario(t, testConfig)

	// WHEN loaded and converted
	cfg, err := LoadScenarioConfig(path)
	require.NoError(t, err)
	sc, err := cfg.ToScenario(42)
	require.NoError(t, err)

	// THEN dates, players and lifecycles come through
	assert.Equal(t, sim.Date(2020, time.January, 1), sc.Start)
	assert.Equal(t, int64(42), sc.Seed)
	assert.False(t, sc.DistinctEndOfSupport)
	require.Len(t, sc.Players, 2)

	assert.Equal(t, 3, sc.Players[0].Copies)
	assert.Equal(t, sim.PolicySimpleMarkov, sc.Players[0].Policy.Kind)
	assert.Equal(t, sim.SimpleMarkovParams{BuyFirstProbability: 1, RenewProbability: 0.5, MaxStagnancy: 2},
		sc.Players[0].Policy.Simple)

	assert.Equal(t, 0, sc.Players[1].Copies)
	assert.Equal(t, sim.GrowingMarkovParams{InitSize: 4, Growth: 2, PEngage: 0.2, PGrow: 0.05, PRenew: 0.3, PResign: 0.1},
		sc.Players[1].Policy.Growing)

	require.Len(t, sc.Lifecycles, 2)
	assert.Equal(t, "Z1", sc.Lifecycles[0].Name)
	assert.Equal(t, sim.Date(2020, time.January, 10), sc.Lifecycles[0].Release)

	w, err := sim.BuildWorld(sc)
	require.NoError(t, err)
	assert.Len(t, w.Enterprises(), 4)
}

func TestLoadScenarioConfig_SeedFromFile(t *testing.T) {
	path := writeScenario(t, "seed: 7\n"+testConfig)
	cfg, err := LoadScenarioConfig(path)
	require.NoError(t, err)
	sc, err := cfg.ToScenario(42)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sc.Seed)
}

func TestLoadScenarioConfig_SchemaRejections(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"unknown top-level key", testConfig + "horizon: 10\n"},
		{"missing players", "start_time: 2020-01-01\nend_time: 2021-01-01\nmainframes_timeline: t.csv\n"},
		{"unknown ai", `start_time: 2020-01-01
end_time: 2021-01-01
mainframes_timeline: t.csv
players: [{ai: RANDOM_WALK}]
`},
		{"probability above one", `start_time: 2020-01-01
end_time: 2021-01-01
mainframes_timeline: t.csv
players: [{ai: SIMPLE_MARKOV, ai_params: {renew_probability: 1.5}}]
`},
		{"growing key on simple player", `start_time: 2020-01-01
end_time: 2021-01-01
mainframes_timeline: t.csv
players: [{ai: SIMPLE_MARKOV, ai_params: {init_size: 3}}]
`},
		{"zero copies", `start_time: 2020-01-01
end_time: 2021-01-01
mainframes_timeline: t.csv
players: [{ai: GROWING_MARKOV, ncopies: 0, ai_params: {init_size: 1, growth: 1}}]
`},
		{"not yaml", "players: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenarioConfig([]byte(tt.config))
			assert.Error(t, err)
		})
	}
}

func TestScenarioConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name: "end before start",
			config: `start_time: 2021-01-01
end_time: 2020-01-01
mainframes_timeline: t.csv
players: []
`,
			wantErr: "end_time",
		},
		{
			name: "growing without sizes",
			config: `start_time: 2020-01-01
end_time: 2021-01-01
mainframes_timeline: t.csv
players: [{ai: GROWING_MARKOV, ai_params: {p_engage: 0.5}}]
`,
			wantErr: "players[0]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseScenarioConfig([]byte(tt.config))
			require.NoError(t, err)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPlayerConfig_UnknownKind(t *testing.T) {
	p := PlayerConfig{AI: "RANDOM_WALK"}
	_, err := p.Spec()
	assert.True(t, errors.Is(err, sim.ErrUnknownPolicy))
}

func TestScenarioConfig_MissingTimeline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	cfg, err := LoadScenarioConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "timeline.csv"), cfg.TimelinePath())
	_, err = cfg.ToScenario(1)
	assert.Error(t, err)
}

func TestShippedExampleScenario(t *testing.T) {
	cfg, err := LoadScenarioConfig(filepath.Join("..", "examples", "scenario.yaml"))
	require.NoError(t, err)
	sc, err := cfg.ToScenario(42)
	require.NoError(t, err)
	_, err = sim.BuildWorld(sc)
	assert.NoError(t, err)
}
