package sim

import (
	"context"
	"math/rand"
	"time"

	"github.com/san-kum/solarwind/internal/camera"
	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/metrics"
	"github.com/san-kum/solarwind/internal/physics"
)

// Options configures a new Simulation.
type Options struct {
	Particles int
	Drift     float64
	Geometry  physics.Geometry
	Seed      int64
	// Clock drives the camera trajectories. Defaults to time.Now.
	Clock func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Particles: physics.DefaultParticleCount,
		Drift:     physics.DefaultDriftSpeed,
		Geometry:  physics.DefaultGeometry(),
		Seed:      1,
	}
}

// Simulation owns every piece of per-frame state. It is not safe for
// concurrent use; one goroutine drives Tick and reads Frame.
type Simulation struct {
	geom   physics.Geometry
	store  *physics.Store
	engine *physics.Engine
	agg    *metrics.Aggregator
	clock  func() time.Time

	frames uint64
	spin   float64
	ctrl   dynamo.Control
	pose   camera.Pose
	last   physics.Report
}

func New(opts Options) (*Simulation, error) {
	rng := rand.New(rand.NewSource(opts.Seed))
	store, err := physics.NewStore(opts.Particles, opts.Drift, opts.Geometry, rng)
	if err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	s := &Simulation{
		geom:   opts.Geometry,
		store:  store,
		engine: physics.NewEngine(opts.Geometry, rng),
		agg:    metrics.NewAggregator(rng),
		clock:  clock,
		ctrl:   dynamo.DefaultControl(),
	}
	s.pose = camera.ComputeFor(opts.Geometry.SunDistance, s.ctrl.Camera, camera.Time(clock()))
	return s, nil
}

// Tick runs one frame. Kinematics and statistics are skipped while paused;
// camera and cusp animation always advance. A snapshot is returned every
// 30 unpaused ticks.
func (s *Simulation) Tick(ctrl dynamo.Control) *dynamo.Stats {
	ctrl = ctrl.Clamp()
	s.ctrl = ctrl

	var st *dynamo.Stats
	if !ctrl.Paused {
		s.last = s.engine.Step(s.store, ctrl)
		s.spin += physics.SpinRate
		st = s.agg.Observe(s.last.Struck, ctrl.CME)
	}

	s.frames++
	s.pose = camera.ComputeFor(s.geom.SunDistance, ctrl.Camera, camera.Time(s.clock()))
	return st
}

// Advance runs n ticks, reading one control per tick from src, and collects
// the published snapshots. It stops early when ctx is done.
func (s *Simulation) Advance(ctx context.Context, n int, src ControlSource, observers ...Observer) ([]dynamo.Stats, error) {
	out := make([]dynamo.Stats, 0, n/metrics.PublishPeriod+1)
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		if st := s.Tick(src.Control()); st != nil {
			out = append(out, *st)
			for _, o := range observers {
				o.OnStats(*st)
			}
		}
	}
	return out, nil
}

func (s *Simulation) Geometry() physics.Geometry { return s.geom }
func (s *Simulation) Store() *physics.Store      { return s.store }
func (s *Simulation) Ticks() uint64              { return s.agg.Ticks() }
func (s *Simulation) Frames() uint64             { return s.frames }
func (s *Simulation) PendingHits() int           { return s.agg.Hits() }
func (s *Simulation) LastReport() physics.Report { return s.last }
func (s *Simulation) Pose() camera.Pose          { return s.pose }
