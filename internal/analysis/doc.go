// Package analysis characterises recorded runs.
//
//   - [AnalyzeStep]: rise time, overshoot and settling of a speed trace
//     against its target
//   - [VelocityAcceleration]: the (v, a) phase portrait of a run, rendered
//     by [PhasePortraitToASCII]
//
// A tracking run that settles shows a trajectory that spirals into the
// point (target, 0) of the portrait.
package analysis
