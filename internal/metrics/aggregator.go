package metrics

import (
	"math/rand"

	"github.com/san-kum/solarwind/internal/dynamo"
)

const (
	PublishPeriod      = 30
	FluxFactor         = 100
	SputterYield       = 2
	BaseReconnection   = 0.15
	CMEReconnection    = 0.1
	ReconnectionJitter = 0.05
)

// Aggregator counts planet strikes and turns them into a Stats snapshot
// every PublishPeriod observed ticks.
type Aggregator struct {
	name  string
	hits  int
	ticks uint64
	rng   *rand.Rand
}

func NewAggregator(rng *rand.Rand) *Aggregator {
	return &Aggregator{name: "hit_flux", rng: rng}
}

func (a *Aggregator) Name() string { return a.name }

// Observe records one simulated tick with the given number of strikes.
// It returns a snapshot on publication ticks and nil otherwise.
func (a *Aggregator) Observe(struck int, cme bool) *dynamo.Stats {
	if struck > 0 {
		a.hits += struck
	}
	a.ticks++
	if a.ticks%PublishPeriod != 0 {
		return nil
	}

	rate := BaseReconnection + a.rng.Float64()*ReconnectionJitter
	if cme {
		rate += CMEReconnection
	}
	st := &dynamo.Stats{
		Tick:             a.ticks,
		ParticlesHitting: float64(a.hits * FluxFactor),
		SputteredAtoms:   a.hits * SputterYield,
		ReconnectionRate: rate,
	}
	a.hits = 0
	return st
}

// Hits is the number of strikes since the last publication.
func (a *Aggregator) Hits() int { return a.hits }

// Ticks is the number of observed (unpaused) ticks.
func (a *Aggregator) Ticks() uint64 { return a.ticks }

func (a *Aggregator) Reset() {
	a.hits = 0
	a.ticks = 0
}
