package metrics

import (
	"math"

	"github.com/san-kum/solarwind/internal/dynamo"
)

// History keeps the most recent published snapshots.
type History struct {
	capacity int
	items    []dynamo.Stats
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{capacity: capacity, items: make([]dynamo.Stats, 0, capacity)}
}

func (h *History) OnStats(st dynamo.Stats) {
	h.items = append(h.items, st)
	if len(h.items) > h.capacity {
		h.items = h.items[1:]
	}
}

func (h *History) Len() int { return len(h.items) }

func (h *History) Items() []dynamo.Stats {
	out := make([]dynamo.Stats, len(h.items))
	copy(out, h.items)
	return out
}

func (h *History) Latest() (dynamo.Stats, bool) {
	if len(h.items) == 0 {
		return dynamo.Stats{}, false
	}
	return h.items[len(h.items)-1], true
}

// Series extracts one field per snapshot for plotting.
func (h *History) Series(field func(dynamo.Stats) float64) []float64 {
	out := make([]float64, len(h.items))
	for i, st := range h.items {
		out[i] = field(st)
	}
	return out
}

func (h *History) Reset() { h.items = h.items[:0] }

func Flux(st dynamo.Stats) float64         { return st.ParticlesHitting }
func Sputtered(st dynamo.Stats) float64    { return float64(st.SputteredAtoms) }
func Reconnection(st dynamo.Stats) float64 { return st.ReconnectionRate }

// Summary condenses a run's snapshots.
type Summary struct {
	Snapshots        int     `json:"snapshots" yaml:"snapshots"`
	MeanFlux         float64 `json:"mean_flux" yaml:"mean_flux"`
	PeakFlux         float64 `json:"peak_flux" yaml:"peak_flux"`
	TotalSputtered   int     `json:"total_sputtered" yaml:"total_sputtered"`
	MeanReconnection float64 `json:"mean_reconnection" yaml:"mean_reconnection"`
}

func Summarize(stats []dynamo.Stats) Summary {
	s := Summary{Snapshots: len(stats)}
	if len(stats) == 0 {
		return s
	}
	for _, st := range stats {
		s.MeanFlux += st.ParticlesHitting
		s.PeakFlux = math.Max(s.PeakFlux, st.ParticlesHitting)
		s.TotalSputtered += st.SputteredAtoms
		s.MeanReconnection += st.ReconnectionRate
	}
	n := float64(len(stats))
	s.MeanFlux /= n
	s.MeanReconnection /= n
	return s
}

// Map flattens a summary for storage metadata.
func (s Summary) Map() map[string]float64 {
	return map[string]float64{
		"snapshots":         float64(s.Snapshots),
		"mean_flux":         s.MeanFlux,
		"peak_flux":         s.PeakFlux,
		"total_sputtered":   float64(s.TotalSputtered),
		"mean_reconnection": s.MeanReconnection,
	}
}
