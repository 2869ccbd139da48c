// Package render implements the conical gradient engine for go-regulator
// and the Ebiten window shell that draws and drives a dial.
//
// The engine (stop tables, the conical rasterizer, colors, fonts and the
// headless snapshot renderer) has no window dependency. The shell files
// are excluded with the noebiten build tag.
package render
