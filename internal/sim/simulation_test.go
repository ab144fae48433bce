package sim_test

import (
	"context"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/metrics"
	"github.com/san-kum/solarwind/internal/sim"
)

func steppingClock() func() time.Time {
	now := time.UnixMilli(1_700_000_000_000)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newSim(particles int, seed int64) *sim.Simulation {
	opts := sim.DefaultOptions()
	opts.Particles = particles
	opts.Seed = seed
	opts.Clock = steppingClock()
	s, err := sim.New(opts)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var storm = dynamo.Control{WindSpeed: 750, CME: true, Camera: dynamo.CameraOrbit}

var _ = Describe("Simulation", func() {
	It("rejects an empty particle store", func() {
		opts := sim.DefaultOptions()
		opts.Particles = 0
		_, err := sim.New(opts)
		Expect(err).To(MatchError(dynamo.ErrInvalidParticleCount))
	})

	It("keeps the store size fixed", func() {
		s := newSim(500, 1)
		for i := 0; i < 450; i++ {
			s.Tick(storm)
		}
		Expect(s.Store().Len()).To(Equal(500))
		Expect(s.Frame().Positions).To(HaveLen(1500))
		Expect(s.Colors()).To(HaveLen(1500))
	})

	It("publishes a snapshot every 30 unpaused ticks", func() {
		s := newSim(100, 2)
		for i := 1; i <= 120; i++ {
			st := s.Tick(storm)
			if i%30 == 0 {
				Expect(st).NotTo(BeNil(), "tick %d", i)
				Expect(st.Tick).To(BeEquivalentTo(i))
			} else {
				Expect(st).To(BeNil(), "tick %d", i)
			}
		}
	})

	It("derives snapshot values from the strikes since the last publication", func() {
		s := newSim(3000, 3)
		strikes, total := 0, 0
		for i := 0; i < 900; i++ {
			st := s.Tick(storm)
			strikes += s.LastReport().Struck
			if st == nil {
				continue
			}
			Expect(st.ParticlesHitting).To(BeNumerically("==", strikes*metrics.FluxFactor))
			Expect(st.SputteredAtoms).To(Equal(strikes * metrics.SputterYield))
			Expect(st.ReconnectionRate).To(BeNumerically(">=", 0.25))
			Expect(st.ReconnectionRate).To(BeNumerically("<=", 0.40))
			total += strikes
			strikes = 0
		}
		Expect(total).To(BeNumerically(">", 0))
	})

	It("keeps reconnection in the quiet band without a CME", func() {
		s := newSim(50, 4)
		stats, err := s.Advance(context.Background(), 600, sim.Fixed(dynamo.DefaultControl()))
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(HaveLen(20))
		for _, st := range stats {
			Expect(st.ReconnectionRate).To(BeNumerically(">=", 0.15))
			Expect(st.ReconnectionRate).To(BeNumerically("<=", 0.30))
		}
	})

	Describe("pausing", func() {
		It("freezes particles and counters but not the camera", func() {
			s := newSim(1000, 5)
			for i := 0; i < 250; i++ {
				s.Tick(storm)
			}

			positions := append([]float32(nil), s.Frame().Positions...)
			hits, ticks := s.PendingHits(), s.Ticks()
			pose, frames := s.Pose(), s.Frames()

			paused := storm
			paused.Paused = true
			for i := 0; i < 75; i++ {
				Expect(s.Tick(paused)).To(BeNil())
			}

			Expect(s.Frame().Positions).To(Equal(positions))
			Expect(s.PendingHits()).To(Equal(hits))
			Expect(s.Ticks()).To(Equal(ticks))
			Expect(s.Frames()).To(Equal(frames + 75))
			Expect(s.Pose()).NotTo(Equal(pose))
			Expect(s.Frame().Paused).To(BeTrue())
		})

		It("keeps the cusp glow oscillating", func() {
			s := newSim(10, 6)
			paused := dynamo.Control{Paused: true, WindSpeed: 400}
			s.Tick(paused)
			a := s.Frame()
			s.Tick(paused)
			b := s.Frame()
			Expect(a.CuspNorth).NotTo(Equal(b.CuspNorth))
			Expect(b.CuspNorth).To(BeNumerically("~", 0.4+0.2*math.Sin(0.2), 1e-12))
			Expect(b.CuspSouth).To(BeNumerically("~", 0.4+0.2*math.Cos(0.2), 1e-12))
		})
	})

	It("passes visibility toggles straight through", func() {
		s := newSim(10, 7)
		s.Tick(dynamo.Control{WindSpeed: 400, ShowFieldLines: true})
		v := s.Frame().Visibility
		Expect(v.Magnetosphere).To(BeFalse())
		Expect(v.FieldLines).To(BeTrue())
	})

	It("clamps malformed controls", func() {
		s := newSim(10, 8)
		s.Tick(dynamo.Control{WindSpeed: 5000, Camera: dynamo.CameraMode(-3)})
		Expect(s.Applied().WindSpeed).To(Equal(dynamo.MaxWindSpeed))
		Expect(s.Applied().Camera).To(Equal(dynamo.CameraOrbit))
	})

	It("switches camera modes without easing", func() {
		s := newSim(10, 9)
		s.Tick(storm)
		s.Tick(dynamo.Control{WindSpeed: 400, Camera: dynamo.CameraSide})
		Expect(s.Pose().Position[2]).To(Equal(50.0))
	})

	It("places the sun camera relative to the configured sun distance", func() {
		opts := sim.DefaultOptions()
		opts.Particles = 10
		opts.Geometry.SunDistance = 150
		opts.Clock = steppingClock()
		s, err := sim.New(opts)
		Expect(err).NotTo(HaveOccurred())

		s.Tick(dynamo.Control{WindSpeed: 400, Camera: dynamo.CameraSun})
		Expect(s.Pose().Position[0]).To(Equal(-130.0))
		Expect(s.Frame().Camera).To(Equal(s.Pose()))
	})

	It("spins the planet only while running", func() {
		s := newSim(10, 10)
		s.Tick(storm)
		spin := s.Frame().PlanetSpin
		Expect(spin).To(BeNumerically(">", 0))
		s.Tick(dynamo.Control{Paused: true, WindSpeed: 400})
		Expect(s.Frame().PlanetSpin).To(Equal(spin))
	})

	It("stops advancing when the context ends", func() {
		s := newSim(10, 11)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		stats, err := s.Advance(ctx, 100, sim.Fixed(storm))
		Expect(err).To(MatchError(context.Canceled))
		Expect(stats).To(BeEmpty())
		Expect(s.Ticks()).To(BeZero())
	})

	It("is reproducible for a seed", func() {
		a, b := newSim(200, 42), newSim(200, 42)
		for i := 0; i < 100; i++ {
			a.Tick(storm)
			b.Tick(storm)
		}
		Expect(a.Frame().Positions).To(Equal(b.Frame().Positions))
	})
})

var _ = Describe("SharedControl", func() {
	It("clamps on write", func() {
		c := sim.NewSharedControl(dynamo.Control{WindSpeed: 100})
		Expect(c.Control().WindSpeed).To(Equal(dynamo.MinWindSpeed))
		got := c.Update(func(ctrl *dynamo.Control) { ctrl.WindSpeed += 1000 })
		Expect(got.WindSpeed).To(Equal(dynamo.MaxWindSpeed))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one simulation per seed", func() {
		opts := sim.DefaultOptions()
		opts.Particles = 300
		results, err := sim.NewEnsemble(opts, 3, 100).Run(context.Background(), 300, storm)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for i, r := range results {
			Expect(r.Seed).To(BeEquivalentTo(100 + i))
			Expect(r.Stats).To(HaveLen(10))
			Expect(r.Summary.Snapshots).To(Equal(10))
		}
		Expect(sim.Pool(results).Snapshots).To(Equal(30))
	})
})
