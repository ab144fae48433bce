// Package physics moves solar wind particles past a magnetized planet.
//
// A [Store] holds the particle population in flat float32 buffers that a
// renderer can consume directly. Each tick the [Engine] advances every
// particle:
//
//   - drift along +x scaled by wind speed and CME state
//   - a sunward push while inside the magnetosheath
//   - respawn on the solar shell after striking the planet, crossing the
//     exit plane, or expiring
//
// Strikes are reported in a [Report] so callers can derive flux metrics:
//
//	rep := engine.Step(store, ctrl)
//	hits += rep.Struck
package physics
