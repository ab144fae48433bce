// Package viz renders the simulation in a terminal.
//
// The package implements the render side using the Bubble Tea framework:
//
//   - [Model]: live view that drives one simulation tick per frame
//   - [Canvas]: Braille-based pixel canvas with per-cell color layers
//   - [Projector]: perspective projection from a camera pose to canvas dots
//   - [Draw]: paints the static scene and a frame's particles
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	C     - Toggle coronal mass ejection
//	+/-   - Solar wind speed
//	1..5  - Camera mode
//	M/F/S - Magnetosphere, field lines, sputtering readout
//	T     - Cycle palettes
//	E     - Export the current frame as SVG
package viz
