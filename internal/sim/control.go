package sim

import (
	"sync"

	"github.com/san-kum/solarwind/internal/dynamo"
)

// ControlSource yields the control for the next tick. It is called exactly
// once per tick.
type ControlSource interface {
	Control() dynamo.Control
}

// Observer receives every published snapshot.
type Observer interface {
	OnStats(st dynamo.Stats)
}

// Sink receives every frame after the tick that produced it.
type Sink interface {
	OnFrame(f Frame)
}

// Fixed is a ControlSource that never changes.
type Fixed dynamo.Control

func (f Fixed) Control() dynamo.Control { return dynamo.Control(f) }

// SharedControl is a ControlSource that other goroutines may update
// between ticks.
type SharedControl struct {
	mu   sync.RWMutex
	ctrl dynamo.Control
}

func NewSharedControl(c dynamo.Control) *SharedControl {
	return &SharedControl{ctrl: c.Clamp()}
}

func (s *SharedControl) Control() dynamo.Control {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctrl
}

func (s *SharedControl) Set(c dynamo.Control) {
	s.mu.Lock()
	s.ctrl = c.Clamp()
	s.mu.Unlock()
}

// Update applies fn to a copy of the current control and stores the
// clamped result.
func (s *SharedControl) Update(fn func(c *dynamo.Control)) dynamo.Control {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.ctrl
	fn(&c)
	s.ctrl = c.Clamp()
	return s.ctrl
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(st dynamo.Stats)

func (f ObserverFunc) OnStats(st dynamo.Stats) { f(st) }

// SinkFunc adapts a function to Sink.
type SinkFunc func(f Frame)

func (fn SinkFunc) OnFrame(f Frame) { fn(f) }
