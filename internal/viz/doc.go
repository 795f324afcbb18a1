// Package viz is the interactive terminal front end built on Bubble Tea.
//
//   - [Model]: the host loop; samples the wall clock each frame, posts key
//     presses to a [sim.Driver] and draws the population
//   - [Canvas]: braille dot canvas with per-cell colors
//   - [Theme]: color schemes for the canvas and the status panel
//
// # Key Bindings
//
//	d     - Single pendulum with a trail
//	c     - Chaos population (rainbow colored, no trails)
//	p     - Toggle precision stepping
//	Space - Pause/Resume
//	t     - Cycle color themes
//	q     - Quit
package viz
