package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// Policy is the decision engine of one enterprise. Decide is called once per
// tick with the broadcasts of that tick (possibly none) and may acquire
// through the handle zero or more times.
type Policy interface {
	Decide(h Handle, notifications []Event)
}

// Policy kind names as they appear in scenario configs.
const (
	PolicySimpleMarkov  = "SIMPLE_MARKOV"
	PolicyGrowingMarkov = "GROWING_MARKOV"
)

// ValidPolicyKinds is the set of recognized policy kind names.
// Shared by scenario validation and NewPolicy.
var ValidPolicyKinds = map[string]bool{PolicySimpleMarkov: true, PolicyGrowingMarkov: true}

// IsValidPolicyKind returns true if kind names a known policy.
func IsValidPolicyKind(kind string) bool {
	return ValidPolicyKinds[kind]
}

// PolicySpec selects a policy kind and carries its parameter record.
// Only the record matching Kind is read.
type PolicySpec struct {
	Kind    string
	Simple  SimpleMarkovParams
	Growing GrowingMarkovParams
}

// Validate checks the parameter record of the selected kind.
func (s PolicySpec) Validate() error {
	switch s.Kind {
	case PolicySimpleMarkov:
		return s.Simple.Validate()
	case PolicyGrowingMarkov:
		return s.Growing.Validate()
	default:
		return fmt.Errorf("%w %q", ErrUnknownPolicy, s.Kind)
	}
}

// NewPolicy creates a policy instance from spec. rng drives its random draws;
// index is the family registry shared by every GROWING_MARKOV instance of
// the same world and is ignored by other kinds.
func NewPolicy(spec PolicySpec, rng *rand.Rand, index *FamilyIndex) (Policy, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	switch spec.Kind {
	case PolicySimpleMarkov:
		return NewSimpleMarkov(spec.Simple, rng), nil
	case PolicyGrowingMarkov:
		if index == nil {
			return nil, fmt.Errorf("%s requires a family index", PolicyGrowingMarkov)
		}
		return NewGrowingMarkov(spec.Growing, index, rng), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownPolicy, spec.Kind)
	}
}

func validateProbability(name string, p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%s must be in [0, 1], got %f", name, p)
	}
	return nil
}
