package graphics

// API is the slice of OpenGL ES 2 the renderer uses. Implementations wrap a
// real GL binding; tests substitute a recording fake.
type API interface {
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear()
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	Uniform1f(location Location, v float32)
	Uniform3f(location Location, v0, v1, v2 float32)
	EnableVertexAttribArray(location Location)
	// VertexAttribPointer points a vec attribute of the given component size
	// at client-side float data.
	VertexAttribPointer(location Location, size int32, data []float32)
	DrawTriangleStrip(count int32)
	// ReadPixels returns the RGBA framebuffer contents, rows bottom-up.
	ReadPixels(width, height int32) []byte
}

// Location is a GL uniform or attribute location. GL reports absent names
// as -1; NoLocation carries that through the type system.
type Location int32

const NoLocation Location = -1

// Valid reports whether the location refers to an active uniform or
// attribute in the linked program.
func (l Location) Valid() bool { return l >= 0 }

// Program is a linked shader program with every location the renderer
// needs resolved up front. Locations for uniforms the driver optimized
// out hold NoLocation.
type Program struct {
	Handle uint32

	Position Location

	Resolution  Location
	Time        Location
	Frame       Location
	ChannelTime Location
	Mouse       Location
	Date        Location
	SampleRate  Location
	ChannelRes  Location
	Channels    [4]Location
}
