// Package viz provides terminal visualization of charged particle ensembles.
//
// The package implements a live TUI using the Bubble Tea framework:
//
//   - [Model]: one simulation frame per tick, Braille canvas and stats panel
//   - [Canvas]: Braille-based pixel canvas with per-cell charge colors
//   - [RunInteractive]: preset menu with a parameter editor in front of the live view
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	+/-   - Double/halve sub-steps per frame
//	T     - Toggle trails
//	C     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// Positive charges are drawn in the theme's positive color (red by default),
// negative charges in its negative color (blue).
package viz
