package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/rotation"
)

// TidalShare is the mean fraction of the total torque magnitude on star i
// that comes from the tide.
type TidalShare struct {
	name    string
	index   int
	sys     *rotation.SpinSystem
	sum     float64
	samples int
}

func NewTidalShare(sys *rotation.SpinSystem, index int) *TidalShare {
	return &TidalShare{
		name:  fmt.Sprintf("tidal_share_%d", index+1),
		index: index,
		sys:   sys,
	}
}

func (s *TidalShare) Name() string { return s.name }

func (s *TidalShare) Observe(x dynamo.State, t float64) {
	if s.index >= len(x) {
		return
	}
	terms := s.sys.Terms(s.index, x[s.index], t)
	total := math.Abs(terms.Tidal) + math.Abs(terms.Wind) + math.Abs(terms.Contraction)
	if total > 0 {
		s.sum += math.Abs(terms.Tidal) / total
	}
	s.samples++
}

func (s *TidalShare) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *TidalShare) Reset() {
	s.sum = 0
	s.samples = 0
}

// AngularMomentum is the ratio of the final to the initial spin angular
// momentum I(t) Omega of star i.
type AngularMomentum struct {
	name          string
	index         int
	star          rotation.Star
	initial, last float64
	seen          bool
}

func NewAngularMomentum(star rotation.Star, index int) *AngularMomentum {
	return &AngularMomentum{name: fmt.Sprintf("angular_momentum_ratio_%d", index+1), index: index, star: star}
}

func (a *AngularMomentum) Name() string { return a.name }

func (a *AngularMomentum) Observe(x dynamo.State, t float64) {
	if a.index >= len(x) {
		return
	}
	j := a.star.MoIAt(t) * x[a.index]
	if !a.seen {
		a.initial, a.seen = j, true
	}
	a.last = j
}

func (a *AngularMomentum) Value() float64 {
	if !a.seen || a.initial == 0 {
		return 0
	}
	return a.last / a.initial
}

func (a *AngularMomentum) Reset() {
	a.initial, a.last, a.seen = 0, 0, false
}
