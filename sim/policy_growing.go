package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// GrowingMarkovParams configures GrowingMarkov.
type GrowingMarkovParams struct {
	InitSize int     `yaml:"init_size"`
	Growth   int     `yaml:"growth"`
	PEngage  float64 `yaml:"p_engage"`
	PGrow    float64 `yaml:"p_grow"`
	PRenew   float64 `yaml:"p_renew"`
	PResign  float64 `yaml:"p_resign"`
	// MarkWithdrawn sets the owned-withdrawn flag when the owned family is
	// withdrawn. Off by default: historical runs only ever cleared the flag,
	// which leaves the p_renew branch unreachable.
	MarkWithdrawn bool `yaml:"mark_withdrawn"`
}

// Validate checks sizes and probability ranges.
func (p GrowingMarkovParams) Validate() error {
	if p.InitSize < 1 {
		return fmt.Errorf("init_size must be at least 1, got %d", p.InitSize)
	}
	if p.Growth < 1 {
		return fmt.Errorf("growth must be at least 1, got %d", p.Growth)
	}
	for _, pr := range []struct {
		name string
		val  float64
	}{
		{"p_engage", p.PEngage},
		{"p_grow", p.PGrow},
		{"p_renew", p.PRenew},
		{"p_resign", p.PResign},
	} {
		if err := validateProbability(pr.name, pr.val); err != nil {
			return err
		}
	}
	return nil
}

// GrowingMarkov works at monthly resolution:
//   - not in the market yet: with p_engage buy InitSize units of the latest family
//   - owned family past end of support: with p_resign leave the market for good, otherwise renew
//   - owned family withdrawn: with p_renew renew
//   - otherwise: with p_grow buy Growth more units of the nearest available family
//
// Only the first matching branch runs; a failed draw means no action that month.
// Renewing replaces the whole fleet with the latest family.
// Notification bookkeeping happens every tick; decisions only on the 1st of the month.
type GrowingMarkov struct {
	params GrowingMarkovParams
	index  *FamilyIndex
	rng    *rand.Rand

	owned     string
	withdrawn bool
	outdated  bool
	dead      bool
	size      int
}

// NewGrowingMarkov creates a policy that has not entered the market.
func NewGrowingMarkov(params GrowingMarkovParams, index *FamilyIndex, rng *rand.Rand) *GrowingMarkov {
	return &GrowingMarkov{params: params, index: index, rng: rng}
}

// Decide updates the shared index and own flags, then makes the monthly decision.
func (g *GrowingMarkov) Decide(h Handle, notifications []Event) {
	for _, n := range notifications {
		switch n.Kind {
		case FamilyReleased:
			g.index.Released(n.Family)
		case FamilyWithdrawn:
			g.index.Withdrawn(n.Family)
			if n.Family == g.owned {
				g.withdrawn = g.params.MarkWithdrawn
			}
		case FamilyEndOfSupport:
			if n.Family == g.owned {
				g.outdated = true
			}
		}
	}

	if h.Now().Day() != 1 || g.dead {
		return
	}

	switch {
	case g.owned == "":
		latest, ok := g.index.Latest()
		if !ok {
			return
		}
		if g.rng.Float64() < g.params.PEngage && g.buy(h, latest, g.params.InitSize) {
			g.owned = latest
			g.size = g.params.InitSize
		}
	case g.outdated:
		if g.rng.Float64() < g.params.PResign {
			g.dead = true
			logrus.Debugf("%s resigned from the market with %d units of %s", h.ID(), g.size, g.owned)
			return
		}
		g.renew(h)
	case g.withdrawn:
		if g.rng.Float64() < g.params.PRenew {
			g.renew(h)
		}
	default:
		if g.rng.Float64() >= g.params.PGrow {
			return
		}
		family, ok := g.index.Nearest(g.owned)
		if !ok {
			logrus.Debugf("%s wants to grow but no family after %s is available", h.ID(), g.owned)
			return
		}
		if g.buy(h, family, g.params.Growth) {
			g.size += g.params.Growth
		}
	}
}

func (g *GrowingMarkov) renew(h Handle) {
	latest, ok := g.index.Latest()
	if !ok || !g.buy(h, latest, g.size) {
		return
	}
	g.owned = latest
	g.withdrawn = false
	g.outdated = false
}

func (g *GrowingMarkov) buy(h Handle, family string, volume int) bool {
	if err := h.Acquire(family, volume); err != nil {
		logrus.Warnf("%s could not acquire %d units of %s: %v", h.ID(), volume, family, err)
		return false
	}
	logrus.Debugf("%s acquired %d units of %s", h.ID(), volume, family)
	return true
}

// Owned returns the family the enterprise currently runs, or "".
func (g *GrowingMarkov) Owned() string { return g.owned }

// Size returns the number of units the enterprise runs.
func (g *GrowingMarkov) Size() int { return g.size }

// Dead reports whether the enterprise has left the market.
func (g *GrowingMarkov) Dead() bool { return g.dead }

// Outdated reports whether the owned family reached end of support.
func (g *GrowingMarkov) Outdated() bool { return g.outdated }

// OwnedWithdrawn reports the owned-withdrawn flag.
func (g *GrowingMarkov) OwnedWithdrawn() bool { return g.withdrawn }
