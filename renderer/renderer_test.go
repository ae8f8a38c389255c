package renderer

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmewett/esshader/graphics"
)

// fakeAPI records every GL call the renderer makes.
type fakeAPI struct {
	uploads1f map[graphics.Location][]float32
	uploads3f map[graphics.Location][][3]float32
	viewports [][4]int32
	draws     int
	deleted   []uint32
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		uploads1f: make(map[graphics.Location][]float32),
		uploads3f: make(map[graphics.Location][][3]float32),
	}
}

func (f *fakeAPI) Viewport(x, y, w, h int32) {
	f.viewports = append(f.viewports, [4]int32{x, y, w, h})
}
func (f *fakeAPI) ClearColor(r, g, b, a float32) {}
func (f *fakeAPI) Clear() {}
func (f *fakeAPI) UseProgram(p uint32) {}
func (f *fakeAPI) DeleteProgram(p uint32) { f.deleted = append(f.deleted, p) }
func (f *fakeAPI) Uniform1f(loc graphics.Location, v float32) {
	f.uploads1f[loc] = append(f.uploads1f[loc], v)
}
func (f *fakeAPI) Uniform3f(loc graphics.Location, v0, v1, v2 float32) {
	f.uploads3f[loc] = append(f.uploads3f[loc], [3]float32{v0, v1, v2})
}
func (f *fakeAPI) EnableVertexAttribArray(loc graphics.Location) {}
func (f *fakeAPI) VertexAttribPointer(loc graphics.Location, size int32, d []float32) {}
func (f *fakeAPI) DrawTriangleStrip(count int32) { f.draws++ }
func (f *fakeAPI) ReadPixels(w, h int32) []byte {
	return make([]byte, int(w)*int(h)*4)
}

// fakeContext feeds one scripted event batch per loop iteration and
// tracks size the way the real context does: from ConfigureEvent.
type fakeContext struct {
	batches [][]graphics.Event
	width   int
	height  int
	swaps   int
}

func (f *fakeContext) DrainEvents() []graphics.Event {
	if len(f.batches) == 0 {
		return nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	for _, ev := range batch {
		if conf, ok := ev.(graphics.ConfigureEvent); ok {
			f.width, f.height = conf.Width, conf.Height
		}
	}
	return batch
}
func (f *fakeContext) SwapBuffers() { f.swaps++ }
func (f *fakeContext) Size() (int, int) { return f.width, f.height }
func (f *fakeContext) Shutdown() {}

func testProgram() graphics.Program {
	return graphics.Program{
		Handle:     1,
		Position:   0,
		Resolution: 1,
		Time:       2,
		Frame:      3,
	}
}

func discard() *log.Logger { return log.New(io.Discard) }

func TestResizeSkipsRedundantCalls(t *testing.T) {
	api := newFakeAPI()
	prog := testProgram()
	r := New(&fakeContext{}, api, prog, discard())

	r.Resize(640, 360)
	r.Resize(640, 360)
	r.Resize(640, 360)

	assert.Len(t, api.viewports, 1)
	assert.Equal(t, [4]int32{0, 0, 640, 360}, api.viewports[0])
	require.Len(t, api.uploads3f[prog.Resolution], 1)
	assert.Equal(t, [3]float32{640, 360, 0}, api.uploads3f[prog.Resolution][0])

	r.Resize(800, 600)
	assert.Len(t, api.viewports, 2)
	assert.Len(t, api.uploads3f[prog.Resolution], 2)
}

func TestFrameCounterStartsAtOneAndNeverResets(t *testing.T) {
	api := newFakeAPI()
	prog := testProgram()
	r := New(&fakeContext{}, api, prog, discard())

	const n = 5
	for i := 0; i < n; i++ {
		r.Frame(float32(i) * 0.016)
		if i == 2 {
			r.Resize(1280, 720)
		}
	}

	require.Len(t, api.uploads1f[prog.Frame], n)
	for i, v := range api.uploads1f[prog.Frame] {
		assert.Equal(t, float32(i+1), v)
	}
}

func TestFrameWithoutTimeUniform(t *testing.T) {
	api := newFakeAPI()
	prog := testProgram()
	prog.Time = graphics.NoLocation
	r := New(&fakeContext{}, api, prog, discard())

	r.Frame(1.5)
	r.Frame(3.0)

	assert.Empty(t, api.uploads1f[graphics.NoLocation])
	assert.Equal(t, []float32{1, 2}, api.uploads1f[prog.Frame])
	assert.Equal(t, 2, api.draws)
}

func TestRunQuitKeys(t *testing.T) {
	for _, quit := range []graphics.KeySym{graphics.KeysymEscape, graphics.KeysymLowerQ} {
		api := newFakeAPI()
		ctx := &fakeContext{
			width:  640,
			height: 360,
			batches: [][]graphics.Event{
				nil,
				{graphics.MotionEvent{X: 10, Y: 20}, graphics.ExposeEvent{}},
				{graphics.KeyPressEvent{Sym: graphics.KeySym('x')}},
				{graphics.KeyPressEvent{Sym: quit}},
			},
		}
		r := New(ctx, api, testProgram(), discard())
		r.Run()

		// Three full iterations before the quit key, and none after it.
		assert.Equal(t, 3, ctx.swaps)
		assert.Equal(t, 3, api.draws)
	}
}

func TestRunResizesFromConfigureEvents(t *testing.T) {
	api := newFakeAPI()
	prog := testProgram()
	ctx := &fakeContext{
		width:  640,
		height: 360,
		batches: [][]graphics.Event{
			nil,
			{graphics.ConfigureEvent{Width: 800, Height: 600}},
			{graphics.KeyPressEvent{Sym: graphics.KeysymEscape}},
		},
	}
	r := New(ctx, api, prog, discard())
	r.Run()

	// One viewport per applied size: the initial one and the resize. The
	// per-iteration size check must not duplicate the event's resize.
	require.Len(t, api.viewports, 2)
	assert.Equal(t, [4]int32{0, 0, 640, 360}, api.viewports[0])
	assert.Equal(t, [4]int32{0, 0, 800, 600}, api.viewports[1])
	require.Len(t, api.uploads3f[prog.Resolution], 2)
	assert.Equal(t, [3]float32{800, 600, 0}, api.uploads3f[prog.Resolution][1])
}

func TestReloadSwapsProgramAndKeepsCounter(t *testing.T) {
	api := newFakeAPI()
	prog := testProgram()
	r := New(&fakeContext{width: 640, height: 360}, api, prog, discard())

	r.Resize(640, 360)
	r.Frame(0.1)
	r.Frame(0.2)

	next := testProgram()
	next.Handle = 2
	requests := make(chan struct{}, 1)
	r.WatchReload(requests, func() (graphics.Program, error) {
		return next, nil
	})
	requests <- struct{}{}
	r.maybeReload()

	assert.Equal(t, []uint32{1}, api.deleted)
	assert.Equal(t, uint32(2), r.prog.Handle)

	// The cached size is invalidated, so the same size applies again and
	// re-uploads the resolution into the new program.
	r.Resize(640, 360)
	assert.Len(t, api.uploads3f[prog.Resolution], 2)

	// The frame counter continues across the swap.
	r.Frame(0.3)
	assert.Equal(t, []float32{1, 2, 3}, api.uploads1f[prog.Frame])
}

func TestReloadFailureKeepsOldProgram(t *testing.T) {
	api := newFakeAPI()
	var buf bytes.Buffer
	logger := log.New(&buf)
	r := New(&fakeContext{width: 640, height: 360}, api, testProgram(), logger)

	requests := make(chan struct{}, 1)
	r.WatchReload(requests, func() (graphics.Program, error) {
		return graphics.Program{}, errors.New("0:3: syntax error")
	})
	requests <- struct{}{}
	r.maybeReload()

	assert.Empty(t, api.deleted)
	assert.Equal(t, uint32(1), r.prog.Handle)
	assert.Contains(t, buf.String(), "shader reload failed")
}

func TestReloadWithoutRequestIsNoop(t *testing.T) {
	api := newFakeAPI()
	r := New(&fakeContext{}, api, testProgram(), discard())

	requests := make(chan struct{}, 1)
	r.WatchReload(requests, func() (graphics.Program, error) {
		t.Fatal("rebuild must not run without a request")
		return graphics.Program{}, nil
	})
	r.maybeReload()

	assert.Empty(t, api.deleted)
}

func TestRunOffscreenFixedStep(t *testing.T) {
	api := newFakeAPI()
	prog := testProgram()
	r := New(&fakeContext{width: 320, height: 180}, api, prog, discard())

	var frames int
	err := r.RunOffscreen(5, 60, func(pix []byte) error {
		assert.Len(t, pix, 320*180*4)
		frames++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, frames)

	require.Len(t, api.uploads1f[prog.Time], 5)
	for i, v := range api.uploads1f[prog.Time] {
		assert.Equal(t, float32(i)/60, v)
	}
	assert.Equal(t, []float32{1, 2, 3, 4, 5}, api.uploads1f[prog.Frame])
}

func TestRunOffscreenSinkError(t *testing.T) {
	r := New(&fakeContext{width: 64, height: 64}, newFakeAPI(), testProgram(), discard())

	sinkErr := errors.New("pipe closed")
	err := r.RunOffscreen(3, 30, func(pix []byte) error {
		return sinkErr
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, sinkErr)
}

func TestScreenshot(t *testing.T) {
	api := newFakeAPI()
	prog := testProgram()
	r := New(&fakeContext{width: 64, height: 32}, api, prog, discard())

	pix := r.Screenshot()
	assert.Len(t, pix, 64*32*4)
	assert.Equal(t, []float32{0}, api.uploads1f[prog.Time])
	assert.Equal(t, []float32{1}, api.uploads1f[prog.Frame])
}
