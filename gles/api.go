package gles

import (
	"sync"

	gl "github.com/go-gl/gl/v3.1/gles2"

	"github.com/tmewett/esshader/graphics"
)

var glInitOnce sync.Once

// Init loads the GLES function pointers. Call it once, after the EGL
// context has been made current.
func Init() error {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	return initErr
}

// API issues the renderer's calls against the real GLES2 driver.
type API struct{}

func (API) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (API) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (API) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT) }

func (API) UseProgram(program uint32) { gl.UseProgram(program) }

func (API) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (API) Uniform1f(location graphics.Location, v float32) {
	gl.Uniform1f(int32(location), v)
}

func (API) Uniform3f(location graphics.Location, v0, v1, v2 float32) {
	gl.Uniform3f(int32(location), v0, v1, v2)
}

func (API) EnableVertexAttribArray(location graphics.Location) {
	gl.EnableVertexAttribArray(uint32(location))
}

func (API) VertexAttribPointer(location graphics.Location, size int32, data []float32) {
	gl.VertexAttribPointer(uint32(location), size, gl.FLOAT, false, 0, gl.Ptr(data))
}

func (API) DrawTriangleStrip(count int32) { gl.DrawArrays(gl.TRIANGLE_STRIP, 0, count) }

func (API) ReadPixels(width, height int32) []byte {
	pix := make([]byte, int(width)*int(height)*4)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	return pix
}
