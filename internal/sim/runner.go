package sim

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errStopped = errors.New("sim: runner stopped")

// Runner drives a Simulation from a ticker, standing in for a display
// refresh scheduler. Each frame runs to completion before cancelation is
// checked again, so stopping never leaves a half-updated store.
type Runner struct {
	sim       *Simulation
	src       ControlSource
	interval  time.Duration
	sinks     []Sink
	observers []Observer

	mu      sync.Mutex
	cancel  context.CancelCauseFunc
	stopped bool
}

func NewRunner(s *Simulation, src ControlSource, frameRate int) *Runner {
	if frameRate <= 0 {
		frameRate = 60
	}
	return &Runner{
		sim:      s,
		src:      src,
		interval: time.Second / time.Duration(frameRate),
	}
}

func (r *Runner) AddSink(k Sink)         { r.sinks = append(r.sinks, k) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run blocks until ctx is done or Stop is called. It returns nil on Stop,
// including a Stop issued before Run, and ctx.Err() when the parent
// context ends.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return nil
	}
	r.cancel = cancel
	r.mu.Unlock()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(context.Cause(ctx), errStopped) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			r.Frame()
		}
	}
}

// Frame runs a single tick and fans out the results.
func (r *Runner) Frame() {
	st := r.sim.Tick(r.src.Control())
	if st != nil {
		for _, o := range r.observers {
			o.OnStats(*st)
		}
	}
	f := r.sim.Frame()
	for _, k := range r.sinks {
		k.OnFrame(f)
	}
}

// Stop ends the loop. It is idempotent, and a Stop before Run makes Run
// return immediately.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.cancel != nil {
		r.cancel(errStopped)
	}
}
