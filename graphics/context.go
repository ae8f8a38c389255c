package graphics

// Context is the windowing side of a graphics session: event delivery,
// buffer swaps, and the size of the drawable surface.
type Context interface {
	// DrainEvents returns all pending window events without blocking.
	DrainEvents() []Event
	SwapBuffers()
	// Size returns the current drawable size in pixels.
	Size() (int, int)
	Shutdown()
}

// Event is a decoded window-system event. Concrete types are
// ConfigureEvent, KeyPressEvent, MotionEvent and ExposeEvent.
type Event interface{}

// ConfigureEvent reports a window size change.
type ConfigureEvent struct {
	Width  int
	Height int
}

// KeyPressEvent reports a key press by X keysym.
type KeyPressEvent struct {
	Sym KeySym
}

// MotionEvent reports pointer movement in window coordinates.
type MotionEvent struct {
	X int
	Y int
}

// ExposeEvent reports that a region of the window needs repainting.
type ExposeEvent struct{}

// KeySym is an X11 key symbol.
type KeySym uint32

const (
	KeysymEscape KeySym = 0xff1b
	KeysymLowerQ KeySym = 0x0071
)
