package sim_test

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/solarwind/internal/dynamo"
	"github.com/san-kum/solarwind/internal/sim"
)

var _ = Describe("Runner", func() {
	It("delivers frames and snapshots until stopped", func() {
		s := newSim(50, 20)
		r := sim.NewRunner(s, sim.Fixed(storm), 500)

		var frames, stats atomic.Int64
		r.AddSink(sim.SinkFunc(func(sim.Frame) { frames.Add(1) }))
		r.AddObserver(sim.ObserverFunc(func(dynamo.Stats) { stats.Add(1) }))

		done := make(chan error, 1)
		go func() { done <- r.Run(context.Background()) }()

		Eventually(stats.Load, 5*time.Second).Should(BeNumerically(">=", 1))
		r.Stop()
		r.Stop()

		Eventually(done, time.Second).Should(Receive(BeNil()))
		Expect(frames.Load()).To(BeNumerically(">=", 30))
	})

	It("reports the parent context error", func() {
		r := sim.NewRunner(newSim(5, 21), sim.Fixed(storm), 100)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		Expect(r.Run(ctx)).To(MatchError(context.DeadlineExceeded))
	})

	It("tolerates Stop before Run", func() {
		r := sim.NewRunner(newSim(5, 22), sim.Fixed(storm), 0)
		Expect(r.Stop).NotTo(Panic())
	})

	It("returns from Run at once when stopped beforehand", func() {
		s := newSim(5, 24)
		r := sim.NewRunner(s, sim.Fixed(storm), 500)
		r.Stop()

		done := make(chan error, 1)
		go func() { done <- r.Run(context.Background()) }()

		Eventually(done, time.Second).Should(Receive(BeNil()))
		Expect(s.Ticks()).To(BeZero())
	})

	It("runs exactly one tick per Frame call", func() {
		s := newSim(5, 23)
		r := sim.NewRunner(s, sim.Fixed(storm), 60)
		for i := 0; i < 7; i++ {
			r.Frame()
		}
		Expect(s.Ticks()).To(BeEquivalentTo(7))
		Expect(s.Frames()).To(BeEquivalentTo(7))
	})
})
