package renderer

import (
	"github.com/charmbracelet/log"

	"github.com/tmewett/esshader/graphics"
)

// quad covers clip space as a triangle strip.
var quad = []float32{
	-1.0, -1.0,
	1.0, -1.0,
	-1.0, 1.0,
	1.0, 1.0,
}

// Renderer drives one shader program over one graphics context. It owns
// the cached viewport size, the frame counter and the clock. Not safe for
// concurrent use; everything runs on the context's thread.
type Renderer struct {
	ctx  graphics.Context
	gl   graphics.API
	prog graphics.Program
	log  *log.Logger

	clock   *FrameClock
	reload  <-chan struct{}
	rebuild func() (graphics.Program, error)

	width  int
	height int
	frames int
}

// New wraps an already-built program. The cached size starts out invalid
// so the first Resize always applies.
func New(ctx graphics.Context, api graphics.API, prog graphics.Program, logger *log.Logger) *Renderer {
	return &Renderer{
		ctx:    ctx,
		gl:     api,
		prog:   prog,
		log:    logger,
		clock:  NewFrameClock(),
		width:  -1,
		height: -1,
	}
}

// WatchReload arms hot reloading: whenever requests delivers, the next
// frame swaps in the program rebuild returns. A failed rebuild keeps the
// current program running.
func (r *Renderer) WatchReload(requests <-chan struct{}, rebuild func() (graphics.Program, error)) {
	r.reload = requests
	r.rebuild = rebuild
}

// Resize applies a new drawable size. Redundant calls are dropped; the
// resolution uniform and the viewport always change together.
func (r *Renderer) Resize(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	if r.prog.Resolution.Valid() {
		r.gl.Uniform3f(r.prog.Resolution, float32(width), float32(height), 0)
	}
	r.gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Info("setting window size", "width", width, "height", height)
}

// Frame renders one frame at the given shader time. The frame counter
// starts at 1 and never resets, not on resize and not across reloads.
// A shader that never reads iTime still renders; only the upload is
// skipped.
func (r *Renderer) Frame(elapsed float32) {
	if r.prog.Time.Valid() {
		r.gl.Uniform1f(r.prog.Time, elapsed)
	}
	r.frames++
	if r.prog.Frame.Valid() {
		r.gl.Uniform1f(r.prog.Frame, float32(r.frames))
	}

	r.gl.ClearColor(0, 0, 0, 1)
	r.gl.Clear()
	r.gl.EnableVertexAttribArray(r.prog.Position)
	r.gl.VertexAttribPointer(r.prog.Position, 2, quad)
	r.gl.DrawTriangleStrip(4)
}

// Run drives the window loop until Escape or q arrives. The quit key
// returns immediately; nothing is drawn after it.
func (r *Renderer) Run() {
	for {
		for _, ev := range r.ctx.DrainEvents() {
			switch ev := ev.(type) {
			case graphics.ConfigureEvent:
				r.Resize(ev.Width, ev.Height)
			case graphics.KeyPressEvent:
				if ev.Sym == graphics.KeysymEscape || ev.Sym == graphics.KeysymLowerQ {
					return
				}
			}
		}

		r.maybeReload()

		// Sample the clock before rendering so the first frame sees
		// a defined, near-zero time.
		elapsed := r.clock.Elapsed()
		r.Resize(r.ctx.Size())
		r.Frame(elapsed)
		r.ctx.SwapBuffers()
	}
}

// Close deletes the current program. Call it after the run loop and
// before the context shuts down; reloads may have swapped the handle, so
// only the renderer knows which program is live.
func (r *Renderer) Close() {
	r.gl.DeleteProgram(r.prog.Handle)
}

func (r *Renderer) maybeReload() {
	if r.reload == nil {
		return
	}
	select {
	case <-r.reload:
	default:
		return
	}
	prog, err := r.rebuild()
	if err != nil {
		r.log.Error("shader reload failed", "err", err)
		return
	}
	r.gl.DeleteProgram(r.prog.Handle)
	r.prog = prog
	// Invalidate the cached size so the next Resize re-uploads the
	// resolution into the fresh program.
	r.width, r.height = -1, -1
	r.log.Info("shader reloaded")
}
