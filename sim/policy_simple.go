package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// SimpleMarkovParams configures SimpleMarkov.
type SimpleMarkovParams struct {
	BuyFirstProbability float64 `yaml:"buy_first_probability"`
	RenewProbability    float64 `yaml:"renew_probability"`
	MaxStagnancy        int     `yaml:"max_stagnancy"`
}

// Validate checks probability ranges and the stagnancy bound.
func (p SimpleMarkovParams) Validate() error {
	if err := validateProbability("buy_first_probability", p.BuyFirstProbability); err != nil {
		return err
	}
	if err := validateProbability("renew_probability", p.RenewProbability); err != nil {
		return err
	}
	if p.MaxStagnancy < 0 {
		return fmt.Errorf("max_stagnancy must be non-negative, got %d", p.MaxStagnancy)
	}
	return nil
}

// SimpleMarkov buys one unit of a family on its release day with some
// probability, and gives up for good after MaxStagnancy skipped releases.
//
// States: uninitiated, then a stagnancy counter in [0, MaxStagnancy].
// counter == MaxStagnancy is absorbing.
type SimpleMarkov struct {
	params    SimpleMarkovParams
	rng       *rand.Rand
	initiated bool
	stagnancy int
}

// NewSimpleMarkov creates an uninitiated SimpleMarkov policy.
func NewSimpleMarkov(params SimpleMarkovParams, rng *rand.Rand) *SimpleMarkov {
	return &SimpleMarkov{params: params, rng: rng}
}

// Decide runs one transition per FamilyReleased notification.
func (s *SimpleMarkov) Decide(h Handle, notifications []Event) {
	for _, n := range notifications {
		if n.Kind != FamilyReleased {
			continue
		}
		switch {
		case !s.initiated:
			if s.rng.Float64() < s.params.BuyFirstProbability && s.buy(h, n.Family) {
				s.initiated = true
				s.stagnancy = 0
			}
		case s.stagnancy < s.params.MaxStagnancy:
			if s.rng.Float64() < s.params.RenewProbability {
				if s.buy(h, n.Family) {
					s.stagnancy = 0
				}
			} else {
				s.stagnancy++
				logrus.Debugf("%s skipped %s, stagnancy %d/%d", h.ID(), n.Family, s.stagnancy, s.params.MaxStagnancy)
			}
		}
	}
}

func (s *SimpleMarkov) buy(h Handle, family string) bool {
	if err := h.Acquire(family, 1); err != nil {
		logrus.Warnf("%s could not acquire %s: %v", h.ID(), family, err)
		return false
	}
	logrus.Debugf("%s acquired 1 unit of %s", h.ID(), family)
	return true
}

// Initiated reports whether the first purchase has happened.
func (s *SimpleMarkov) Initiated() bool { return s.initiated }

// Stagnancy returns the number of consecutive releases skipped since the last purchase.
func (s *SimpleMarkov) Stagnancy() int { return s.stagnancy }

// Saturated reports whether the absorbing state has been reached.
func (s *SimpleMarkov) Saturated() bool {
	return s.initiated && s.stagnancy >= s.params.MaxStagnancy
}
