// Package sim ties the particle store, kinematics, hit aggregation and
// camera into a single per-frame [Simulation].
//
// A host scheduler calls [Simulation.Tick] once per display refresh with the
// current control surface, then hands [Simulation.Frame] to a renderer:
//
//	s, _ := sim.New(sim.DefaultOptions())
//	if st := s.Tick(ctrl); st != nil {
//	    publish(*st)
//	}
//	draw(s.Frame())
//
// [Runner] provides that scheduler from a ticker and can be stopped at any
// frame boundary. [Ensemble] runs several seeds headless in parallel.
//
// # Thread Safety
//
// Simulation is NOT thread-safe. Controls written from other goroutines
// should go through [SharedControl].
package sim
