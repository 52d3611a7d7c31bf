package rotation_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/binhab/internal/binary"
	"github.com/san-kum/binhab/internal/numeric"
	"github.com/san-kum/binhab/internal/physics"
	"github.com/san-kum/binhab/internal/rotation"
	"github.com/san-kum/binhab/internal/wind"
)

// fixedStar never evolves.
type fixedStar struct {
	m, r, l float64
	dmoi    float64
}

func (s fixedStar) Mass() float64                  { return s.m }
func (s fixedStar) RadiusAt(t float64) float64     { return s.r }
func (s fixedStar) LuminosityAt(t float64) float64 { return s.l }
func (s fixedStar) MoIAt(t float64) float64        { return physics.MoICoefficient(s.m) * s.m * s.r * s.r }
func (s fixedStar) DMoIAt(t float64) float64       { return s.dmoi }

var sun = fixedStar{m: 1, r: 1, l: 1}

var _ = Describe("Tidal acceleration", func() {
	var orbit binary.Geometry

	BeforeEach(func() {
		var err error
		orbit, err = binary.New(1, 0.8, 0.2, 10)
		Expect(err).NotTo(HaveOccurred())
	})

	tidal := func(omega float64) float64 {
		return rotation.TidalAcceleration(1, 1, 1, physics.GyrationRadius(1), 0.8, orbit.A, orbit.E, orbit.N, omega)
	}

	It("vanishes exactly at the pseudo-synchronous rate", func() {
		Expect(tidal(orbit.SyncRate())).To(BeZero())
	})

	It("spins up slow rotators and brakes fast ones", func() {
		Expect(tidal(0.5 * orbit.SyncRate())).To(BeNumerically(">", 0))
		Expect(tidal(2 * orbit.SyncRate())).To(BeNumerically("<", 0))
	})

	It("weakens steeply with separation", func() {
		wide, err := binary.New(1, 0.8, 0.2, 20)
		Expect(err).NotTo(HaveOccurred())
		w := 0.5 * wide.SyncRate()
		near := rotation.TidalAcceleration(1, 1, 1, physics.GyrationRadius(1), 0.8, orbit.A, orbit.E, orbit.N, w)
		far := rotation.TidalAcceleration(1, 1, 1, physics.GyrationRadius(1), 0.8, wide.A, wide.E, wide.N, w)
		Expect(math.Abs(far)).To(BeNumerically("<", math.Abs(near)/10))
	})
})

var _ = Describe("Wind and contraction", func() {
	p := rotation.DefaultParams()
	wsat := p.Wsat * physics.OmegaSun
	moi := sun.MoIAt(0)

	It("is cubic below saturation", func() {
		w := wsat / 10
		ratio := rotation.WindAcceleration(2*w, 1, 1, moi, p) / rotation.WindAcceleration(w, 1, 1, moi, p)
		Expect(ratio).To(BeNumerically("~", 8, 1e-12))
	})

	It("is linear above saturation", func() {
		w := 2 * wsat
		ratio := rotation.WindAcceleration(2*w, 1, 1, moi, p) / rotation.WindAcceleration(w, 1, 1, moi, p)
		Expect(ratio).To(BeNumerically("~", 2, 1e-12))
	})

	It("spins up a contracting star", func() {
		Expect(rotation.ContractionAcceleration(physics.OmegaSun, moi, -0.01)).To(BeNumerically(">", 0))
		Expect(rotation.ContractionAcceleration(physics.OmegaSun, moi, 0)).To(BeZero())
	})

	It("switches off during disk locking and after the age ceiling", func() {
		sys := rotation.NewSpinSystem(fixedStar{m: 1, r: 1, l: 1, dmoi: -0.01}, nil, binary.Geometry{}, p)
		Expect(sys.Terms(0, physics.OmegaSun, p.TauDisk/2)).To(Equal(rotation.Terms{}))
		Expect(sys.Terms(0, physics.OmegaSun, p.AgeCeiling+0.5)).To(Equal(rotation.Terms{}))

		mid := sys.Terms(0, physics.OmegaSun, 1)
		Expect(mid.Tidal).To(BeZero())
		Expect(mid.Wind).To(BeNumerically("<", 0))
		Expect(mid.Contraction).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Period law", func() {
	truth := rotation.PeriodLaw{A: 2, B: 0.5, C: 1}
	ages := numeric.Logspace(0.01, 10, 50)

	It("recovers the parameters of a synthetic law", func() {
		periods := make([]float64, len(ages))
		for i, t := range ages {
			periods[i] = truth.Period(t)
		}
		law, err := rotation.FitPeriodLaw(ages, periods)
		Expect(err).NotTo(HaveOccurred())
		Expect(law.A).To(BeNumerically("~", truth.A, 1e-3))
		Expect(law.B).To(BeNumerically("~", truth.B, 1e-3))
		Expect(law.C).To(BeNumerically("~", truth.C, 1e-3))
	})

	It("inverts to the age that produced a period", func() {
		for _, t := range []float64{0.01, 0.3, 1, 4.56, 10} {
			Expect(truth.Age(truth.Period(t))).To(BeNumerically("~", t, 1e-9*math.Max(1, t)))
		}
	})

	It("maps periods below the offset to age zero", func() {
		Expect(truth.Age(truth.C)).To(BeZero())
		Expect(truth.Age(0.5)).To(BeZero())
	})

	It("rejects unusable samples", func() {
		_, err := rotation.FitPeriodLaw([]float64{1, 2}, []float64{1, 2})
		Expect(err).To(MatchError(rotation.ErrFit))
		_, err = rotation.FitPeriodLaw([]float64{0, 1, 2}, []float64{1, 2, 3})
		Expect(err).To(MatchError(rotation.ErrFit))
	})

	It("follows the wind spin-down of a sun-like star", func() {
		law, err := rotation.WindLaw(sun, numeric.Logspace(0.01, 10, 30), wind.EarlyConstant)
		Expect(err).NotTo(HaveOccurred())
		Expect(law.Valid()).To(BeTrue())
		pSun := physics.PSun / physics.Day
		Expect(law.Period(physics.SolarAge)).To(BeNumerically("~", pSun, 0.25*pSun))
	})

	It("brakes less as the star ages", func() {
		young := rotation.FittedAcceleration(truth, 2*math.Pi/(truth.Period(0.1)*physics.Day))
		old := rotation.FittedAcceleration(truth, 2*math.Pi/(truth.Period(5)*physics.Day))
		Expect(young).To(BeNumerically("<", old))
		Expect(old).To(BeNumerically("<", 0))
	})
})

var _ = Describe("Evolve", func() {
	ctx := context.Background()

	It("clamps the end age to the system lifetime", func() {
		opts := rotation.DefaultOptions()
		opts.Lifetime = 2
		opts.Dt = 1e-2

		ev, err := rotation.Evolve(ctx, sun, nil, binary.Geometry{}, rotation.DefaultParams(), opts, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Clamped).To(BeTrue())
		Expect(ev.End).To(Equal(2.0))
		Expect(ev.Times[ev.Len()-1]).To(BeNumerically("~", 2, 1e-9))
		Expect(math.IsInf(ev.TSync[0], 1)).To(BeTrue())
	})

	It("spins a single star down under its wind", func() {
		opts := rotation.DefaultOptions()
		opts.TauMax = 4.56
		opts.Dt = 1e-2

		ev, err := rotation.Evolve(ctx, sun, nil, binary.Geometry{}, rotation.DefaultParams(), opts, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Clamped).To(BeFalse())
		p := ev.Period[0]
		Expect(p[len(p)-1]).To(BeNumerically(">", p[0]))
		Expect(ev.Omega[1]).To(BeEmpty())
		for _, terms := range ev.Terms[0] {
			Expect(terms.Tidal).To(BeZero())
		}
	})

	It("locks a close twin onto the pseudo-synchronous period", func() {
		orbit, err := binary.New(1, 1, 0, 5)
		Expect(err).NotTo(HaveOccurred())
		opts := rotation.DefaultOptions()
		opts.TauMax = 1

		ev, err := rotation.Evolve(ctx, sun, sun, orbit, rotation.DefaultParams(), opts, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.TSync[0]).To(BeNumerically("<", 1))
		Expect(ev.Dt).To(BeNumerically("<=", opts.Dt))

		for i := range 2 {
			p := ev.Period[i]
			Expect(p[len(p)-1]/orbit.SyncPeriod()).To(BeNumerically("~", 1, 0.05))
		}
	})

	It("rejects an empty age range", func() {
		opts := rotation.DefaultOptions()
		opts.TauMax = opts.Tau0
		_, err := rotation.Evolve(ctx, sun, nil, binary.Geometry{}, rotation.DefaultParams(), opts, nil)
		Expect(err).To(MatchError(rotation.ErrAgeRange))
	})

	It("parses braking names", func() {
		b, err := rotation.ParseBraking("Fitted")
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(rotation.BrakingFitted))
		_, err = rotation.ParseBraking("magnetar")
		Expect(err).To(HaveOccurred())
	})
})
