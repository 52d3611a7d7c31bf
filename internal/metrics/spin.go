// Package metrics holds dynamo.Metric implementations observed while the
// spins of a binary are integrated. State component i is the angular
// velocity of star i in rad/s; time is in Gyr.
package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/physics"
)

func period(omega float64) float64 { return 2 * math.Pi / omega / physics.Day }

// SyncTime is the first age at which star i spins within a relative tol
// of target. It is +Inf while the star has not synchronised.
type SyncTime struct {
	name   string
	index  int
	target float64
	tol    float64
	at     float64
}

func NewSyncTime(index int, target, tol float64) *SyncTime {
	return &SyncTime{
		name:   fmt.Sprintf("sync_time_%d", index+1),
		index:  index,
		target: target,
		tol:    tol,
		at:     math.Inf(1),
	}
}

func (s *SyncTime) Name() string { return s.name }

func (s *SyncTime) Observe(x dynamo.State, t float64) {
	if !math.IsInf(s.at, 1) || s.index >= len(x) {
		return
	}
	if math.Abs(x[s.index]/s.target-1) < s.tol {
		s.at = t
	}
}

func (s *SyncTime) Value() float64 { return s.at }
func (s *SyncTime) Reset()         { s.at = math.Inf(1) }

// MinPeriod is the shortest rotation period of star i, in days.
type MinPeriod struct {
	name  string
	index int
	min   float64
}

func NewMinPeriod(index int) *MinPeriod {
	return &MinPeriod{name: fmt.Sprintf("min_period_%d", index+1), index: index, min: math.Inf(1)}
}

func (m *MinPeriod) Name() string { return m.name }

func (m *MinPeriod) Observe(x dynamo.State, t float64) {
	if m.index < len(x) && x[m.index] > 0 {
		m.min = math.Min(m.min, period(x[m.index]))
	}
}

func (m *MinPeriod) Value() float64 { return m.min }
func (m *MinPeriod) Reset()         { m.min = math.Inf(1) }

// FinalPeriod is the last observed rotation period of star i, in days.
type FinalPeriod struct {
	name  string
	index int
	last  float64
}

func NewFinalPeriod(index int) *FinalPeriod {
	return &FinalPeriod{name: fmt.Sprintf("final_period_%d", index+1), index: index}
}

func (f *FinalPeriod) Name() string { return f.name }

func (f *FinalPeriod) Observe(x dynamo.State, t float64) {
	if f.index < len(x) && x[f.index] > 0 {
		f.last = period(x[f.index])
	}
}

func (f *FinalPeriod) Value() float64 { return f.last }
func (f *FinalPeriod) Reset()         { f.last = 0 }

// Breakup is the fraction of samples in which star i spins slower than
// omegaMax. 1 means the star never approached break-up.
type Breakup struct {
	name       string
	index      int
	omegaMax   float64
	violations int
	samples    int
}

func NewBreakup(index int, mass, radius float64) *Breakup {
	return &Breakup{
		name:     fmt.Sprintf("below_breakup_%d", index+1),
		index:    index,
		omegaMax: 2 * math.Pi / (physics.BreakupPeriod(mass, radius) * physics.Day),
	}
}

func (b *Breakup) Name() string { return b.name }

func (b *Breakup) Observe(x dynamo.State, t float64) {
	if b.index >= len(x) {
		return
	}
	b.samples++
	if math.Abs(x[b.index]) > b.omegaMax {
		b.violations++
	}
}

func (b *Breakup) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Breakup) Reset() {
	b.violations = 0
	b.samples = 0
}
