package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	sim "github.com/mainframe-market/mfsim/sim"
	"github.com/mainframe-market/mfsim/sim/lifecycle"
)

// PlayerConfig is one entry of the players list. AIParams is decoded once the
// policy kind is known.
type PlayerConfig struct {
	AI       string    `yaml:"ai"`
	NCopies  int       `yaml:"ncopies"`
	AIParams yaml.Node `yaml:"ai_params"`
}

// ScenarioConfig represents a scenario YAML file.
// All top-level keys must be listed to satisfy KnownFields(true) strict parsing.
type ScenarioConfig struct {
	StartTime            time.Time      `yaml:"start_time"`
	EndTime              time.Time      `yaml:"end_time"`
	Seed                 *int64         `yaml:"seed"`
	MainframesTimeline   string         `yaml:"mainframes_timeline"`
	DistinctEndOfSupport bool           `yaml:"distinct_end_of_support"`
	Players              []PlayerConfig `yaml:"players"`

	// dir is the directory of the config file; relative timeline paths resolve against it.
	dir string
}

// LoadScenarioConfig reads path, checks it against the config schema and
// decodes it strictly.
func LoadScenarioConfig(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}
	cfg, err := ParseScenarioConfig(data)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// ParseScenarioConfig decodes a scenario config held in memory. Relative
// timeline paths resolve against the working directory.
func ParseScenarioConfig(data []byte) (*ScenarioConfig, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}
	var cfg ScenarioConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the semantic constraints the schema cannot express.
func (c *ScenarioConfig) Validate() error {
	if c.StartTime.IsZero() {
		return fmt.Errorf("start_time is required")
	}
	if !c.EndTime.After(c.StartTime) {
		return fmt.Errorf("end_time %s must be after start_time %s",
			c.EndTime.Format(time.DateOnly), c.StartTime.Format(time.DateOnly))
	}
	if c.MainframesTimeline == "" {
		return fmt.Errorf("mainframes_timeline is required")
	}
	for i := range c.Players {
		if _, err := c.Players[i].Spec(); err != nil {
			return fmt.Errorf("players[%d]: %w", i, err)
		}
	}
	return nil
}

// Spec decodes the player's ai_params for its policy kind.
func (p *PlayerConfig) Spec() (sim.PlayerSpec, error) {
	if p.NCopies < 0 {
		return sim.PlayerSpec{}, fmt.Errorf("ncopies must be >= 1, got %d", p.NCopies)
	}
	spec := sim.PolicySpec{Kind: p.AI}
	var target any
	switch p.AI {
	case sim.PolicySimpleMarkov:
		target = &spec.Simple
	case sim.PolicyGrowingMarkov:
		target = &spec.Growing
	default:
		return sim.PlayerSpec{}, fmt.Errorf("%w %q", sim.ErrUnknownPolicy, p.AI)
	}
	if !p.AIParams.IsZero() {
		if err := p.AIParams.Decode(target); err != nil {
			return sim.PlayerSpec{}, fmt.Errorf("ai_params: %w", err)
		}
	}
	if err := spec.Validate(); err != nil {
		return sim.PlayerSpec{}, err
	}
	return sim.PlayerSpec{Policy: spec, Copies: p.NCopies}, nil
}

// TimelinePath resolves mainframes_timeline against the config directory.
func (c *ScenarioConfig) TimelinePath() string {
	if filepath.IsAbs(c.MainframesTimeline) || c.dir == "" {
		return c.MainframesTimeline
	}
	return filepath.Join(c.dir, c.MainframesTimeline)
}

// ToScenario validates the config, loads the lifecycle timeline and returns
// the scenario to build. seed is used when the file carries none.
func (c *ScenarioConfig) ToScenario(seed int64) (sim.Scenario, error) {
	if err := c.Validate(); err != nil {
		return sim.Scenario{}, err
	}
	lifecycles, err := lifecycle.Load(c.TimelinePath())
	if err != nil {
		return sim.Scenario{}, err
	}
	sc := sim.Scenario{
		Start:                c.StartTime,
		Seed:                 seed,
		Lifecycles:           lifecycles,
		DistinctEndOfSupport: c.DistinctEndOfSupport,
	}
	if c.Seed != nil {
		sc.Seed = *c.Seed
	}
	for i := range c.Players {
		spec, err := c.Players[i].Spec()
		if err != nil {
			return sim.Scenario{}, fmt.Errorf("players[%d]: %w", i, err)
		}
		sc.Players = append(sc.Players, spec)
	}
	return sc, nil
}
