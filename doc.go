// Package bota is an embeddable interactive world map for [Ebitengine].
//
// It renders entity shapes (usually countries) from SVG path data, lets the
// user pan and zoom with mouse, wheel and touch, and reports which entity
// was tapped using pixel-accurate hit testing.
//
// # Quick start
//
// Load a dataset and hand it to [Run], which creates a window and game loop:
//
//	ds, err := bota.LoadShapesJSON(data)
//	if err != nil { ... }
//	m := bota.New(ds, bota.Config{})
//	sel := bota.NewSelection()
//	m.SetHighlight(sel)
//	m.OnEntityClick(func(ctx bota.ClickContext) { sel.Toggle(ctx.Entity.ID) })
//	bota.Run(m, bota.RunConfig{Title: "World", Width: 1000, Height: 500})
//
// To embed the map in an existing game, call [WorldMap.Update],
// [WorldMap.Draw] and [WorldMap.Resize] from your own [ebiten.Game].
//
// # Coordinates
//
// Shapes live in an intrinsic source space (for example 2000 x 857). The
// [Viewport] fits that space into the display and applies the user's zoom
// and pan:
//
//	screen = C + k*(p - I/2) + offset
//
// with C the display centre, I the intrinsic size and k = FitScale*Scale.
// [Viewport.ScreenToSource] is the exact inverse and is what taps use.
//
// # Hit testing
//
// [HitTest] walks entities from top to bottom with a [HitStrategy]:
// [BoundingBox], [PixelPerfect] (rasterize and sample, the default) or
// [Polygon] (analytic even-odd). [HitTester] adds a bounding-box prefilter.
//
// # Backends
//
// The map draws through the [Canvas] interface. [EbitenCanvas] draws on an
// ebiten image; package ggraster draws headlessly with gogpu/gg; [Recorder]
// captures draw calls. Map events can be bridged to a [Donburi] world with
// package ecs.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package bota
