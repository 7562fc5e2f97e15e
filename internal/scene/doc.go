// Package scene renders the decorative wireframe cube grid shown while an app is generated.
//
// The package splits the work into a pure geometry step and a drawing step:
//
//   - [ComputeFrame]: projects every cube of the grid for one clock value
//   - [Renderer]: owns the clock and a [Surface], draws frames, runs the redraw loop
//   - [Canvas]: Braille-based terminal surface with alpha-blended colors
//
// # Lifecycle
//
//	r, ok := scene.Initialize(canvas, scene.Viewport{Width: 1280, Height: 720, PixelRatio: 2})
//	if ok {
//		r.Start(ctx, 60, resizes, nil)
//		defer r.Teardown()
//	}
//
// A nil surface makes Initialize a no-op; the animation is decoration and never reports errors.
package scene
