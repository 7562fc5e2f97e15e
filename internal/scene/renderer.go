package scene

import (
	"context"
	"math"
	"sync"
	"time"
)

// MaxPixelRatio bounds the backing resolution multiplier.
const MaxPixelRatio = 1.5

// Clock counts rendered frames.
type Clock uint64

// Advance returns the clock n frames later.
func (c Clock) Advance(n uint64) Clock { return c + Clock(n) }

// Viewport is the displayed size of the drawing surface in CSS-style pixels.
type Viewport struct {
	Width, Height int
	PixelRatio    float64
}

// EffectivePixelRatio caps the host ratio at MaxPixelRatio. Unknown ratios count as 1.
func EffectivePixelRatio(r float64) float64 {
	if r <= 0 || math.IsNaN(r) {
		return 1
	}
	return math.Min(r, MaxPixelRatio)
}

// Surface is a 2D drawing target. Line coordinates are in viewport pixels;
// the surface applies the scale passed to Resize.
type Surface interface {
	Resize(backingWidth, backingHeight int, scale float64)
	Clear()
	Line(a, b Point2D, s Stroke)
}

// Renderer draws the cube grid onto a Surface. All methods are no-ops on a nil Renderer.
type Renderer struct {
	mu       sync.Mutex
	surface  Surface
	profile  Profile
	viewport Viewport
	scale    float64
	clock    Clock

	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// Initialize binds a renderer to a surface. The grid profile is chosen here from the
// viewport width and kept for the renderer's lifetime. It returns false when there is
// nothing to draw on.
func Initialize(s Surface, vp Viewport) (*Renderer, bool) {
	if s == nil {
		return nil, false
	}
	r := &Renderer{surface: s, profile: ProfileFor(vp.Width)}
	r.Resize(vp)
	return r, true
}

// Resize recomputes the backing resolution and scale. The profile does not change.
func (r *Renderer) Resize(vp Viewport) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.viewport = vp
	r.scale = EffectivePixelRatio(vp.PixelRatio)
	bw := int(math.Round(float64(vp.Width) * r.scale))
	bh := int(math.Round(float64(vp.Height) * r.scale))
	r.surface.Resize(bw, bh, r.scale)
}

// RenderFrame clears the surface, draws the grid for the current clock and advances
// the clock by one.
func (r *Renderer) RenderFrame() Frame {
	if r == nil {
		return Frame{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.surface.Clear()
	f := ComputeFrame(r.profile, float64(r.viewport.Width), float64(r.viewport.Height), r.clock)
	for _, c := range f.Cubes {
		for _, e := range c.Edges() {
			r.surface.Line(e[0], e[1], c.Stroke)
		}
	}
	r.clock = r.clock.Advance(1)
	return f
}

func (r *Renderer) Clock() Clock {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clock
}

func (r *Renderer) Profile() Profile {
	if r == nil {
		return Profile{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profile
}

// Scale returns the capped pixel ratio currently applied to the surface.
func (r *Renderer) Scale() float64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scale
}

// Start runs the redraw loop at fps frames per second until ctx is done or Teardown is
// called. Viewports received on resizes are applied between frames. onFrame, if set, is
// called from the loop goroutine after every frame. Start only has effect once.
func (r *Renderer) Start(ctx context.Context, fps int, resizes <-chan Viewport, onFrame func(Frame)) {
	if r == nil {
		return
	}
	if fps <= 0 {
		fps = 60
	}
	r.mu.Lock()
	if r.done != nil || r.stopped {
		r.mu.Unlock()
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	go r.loop(ctx, time.Second/time.Duration(fps), resizes, onFrame, done)
}

func (r *Renderer) loop(ctx context.Context, interval time.Duration, resizes <-chan Viewport, onFrame func(Frame), done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case vp, ok := <-resizes:
			if !ok {
				resizes = nil
				continue
			}
			r.Resize(vp)
		case <-ticker.C:
			f := r.RenderFrame()
			if onFrame != nil {
				onFrame(f)
			}
		}
	}
}

// Teardown stops the redraw loop and the resize subscription and waits for the loop to
// exit. It is safe to call more than once; after Teardown, Start does nothing.
// It must not be called from onFrame.
func (r *Renderer) Teardown() {
	if r == nil {
		return
	}
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	cancel, done := r.cancel, r.done
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
