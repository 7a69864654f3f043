// Package chart draws a rolling line plot of the most recent samples.
//
// A Buffer keeps the last N values in arrival order. A Renderer owns a
// Buffer and a Surface and redraws the whole plot after every sample:
// a baseline near the bottom edge, then (with two or more samples) a
// polyline with evenly spaced x positions and y measured upward from the
// baseline in surface units. Values are not scaled, so large readings run
// off the top of the surface and are clipped there.
//
// Surfaces:
//   - BrailleSurface draws into a grid of braille cells (2x4 dots each) for
//     the terminal dashboard.
//   - PNGSurface draws with go-chart's raster renderer for snapshots.
//   - RecordingSurface keeps the drawing commands for comparison.
package chart
