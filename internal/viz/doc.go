// Package viz renders simulation output for the terminal.
//
//   - [Plot] and [PlotMany]: asciigraph line charts of sampled series
//   - [Canvas]: braille pixel canvas, used by [RoadView] to draw the road
//     elevation and the vehicle on it
//   - [Summary]: styled run report
//
// Colors come from the active [Theme]; [SetTheme] switches it.
package viz
