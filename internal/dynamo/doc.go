// Package dynamo provides the primitives shared by the solar wind simulation.
//
//   - [Control]: the external control surface read at the start of every tick
//   - [CameraMode]: the discrete camera trajectory selector
//   - [Stats]: the immutable statistics snapshot published every 30 ticks
//   - [Species]: particle category used for coloring
//
// # Clamping
//
// The per-tick core has no error channel. [Control.Clamp] corrects
// out-of-range input instead of failing:
//
//	ctrl := dynamo.Control{WindSpeed: 9000}.Clamp()
//	// ctrl.WindSpeed == dynamo.MaxWindSpeed
package dynamo
