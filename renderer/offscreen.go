package renderer

import "fmt"

// RunOffscreen renders count frames at a fixed timestep of 1/fps and
// hands each frame's RGBA readback to sink in render order. The shader
// sees the same uniforms as the windowed path, just with deterministic
// time.
func (r *Renderer) RunOffscreen(count, fps int, sink func(pix []byte) error) error {
	width, height := r.ctx.Size()
	r.Resize(width, height)
	for i := 0; i < count; i++ {
		r.Frame(float32(i) / float32(fps))
		pix := r.gl.ReadPixels(int32(width), int32(height))
		if err := sink(pix); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// Screenshot renders a single frame at time zero and returns the RGBA
// readback, rows in GL's bottom-up order.
func (r *Renderer) Screenshot() []byte {
	width, height := r.ctx.Size()
	r.Resize(width, height)
	r.Frame(0)
	return r.gl.ReadPixels(int32(width), int32(height))
}
