//go:build linux

package eglcontext

/*
#cgo LDFLAGS: -lX11 -lEGL
#include <stdlib.h>
#include <EGL/egl.h>
#include <X11/Xlib.h>
#include <X11/Xutil.h>
#include <X11/Xatom.h>

// XChangeProperty wants the atom by pointer, which is awkward to
// express from Go, so wrap the whole EWMH hint here.
static void set_fullscreen_hint(Display *dpy, Window win) {
    Atom state = XInternAtom(dpy, "_NET_WM_STATE", False);
    Atom fullscreen = XInternAtom(dpy, "_NET_WM_STATE_FULLSCREEN", False);
    XChangeProperty(dpy, win, state, XA_ATOM, 32, PropModeReplace,
        (unsigned char *)&fullscreen, 1);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/charmbracelet/log"

	"github.com/tmewett/esshader/graphics"
)

// Context owns the X11 window and the EGL state for on-screen rendering.
// It is not safe for concurrent use; all calls belong on the thread that
// opened it.
type Context struct {
	log *log.Logger

	display *C.Display
	window  C.Window

	eglDisplay C.EGLDisplay
	eglContext C.EGLContext
	eglSurface C.EGLSurface

	width  int
	height int
}

// Open brings up an X11 window with a current GLES2 context on it. Every
// step of the bring-up returns its own error; callers treat any failure
// as fatal, so nothing is unwound here.
func Open(width, height int, fullscreen bool, title string, logger *log.Logger) (*Context, error) {
	c := &Context{log: logger}

	c.display = C.XOpenDisplay(nil)
	if c.display == nil {
		return nil, fmt.Errorf("failed to open X display")
	}

	c.eglDisplay = C.eglGetDisplay(C.EGLNativeDisplayType(unsafe.Pointer(c.display)))
	if c.eglDisplay == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return nil, fmt.Errorf("failed to get EGL display")
	}

	if C.eglBindAPI(C.EGL_OPENGL_ES_API) == C.EGL_FALSE {
		return nil, fmt.Errorf("failed to bind GLES API")
	}

	var major, minor C.EGLint
	if C.eglInitialize(c.eglDisplay, &major, &minor) == C.EGL_FALSE {
		return nil, fmt.Errorf("failed to initialize EGL")
	}
	logger.Debug("EGL initialized", "version", fmt.Sprintf("%d.%d", major, minor))

	configAttribs := []C.EGLint{
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_DEPTH_SIZE, 8,
		C.EGL_STENCIL_SIZE, 8,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_ES2_BIT,
		C.EGL_NONE,
	}
	var config C.EGLConfig
	var numConfig C.EGLint
	if C.eglChooseConfig(c.eglDisplay, &configAttribs[0], &config, 1, &numConfig) == C.EGL_FALSE || numConfig == 0 {
		return nil, fmt.Errorf("failed to choose EGL config")
	}

	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_CLIENT_VERSION, 2,
		C.EGL_NONE,
	}
	c.eglContext = C.eglCreateContext(c.eglDisplay, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if c.eglContext == C.EGLContext(C.EGL_NO_CONTEXT) {
		return nil, fmt.Errorf("failed to create EGL context")
	}

	var visualID C.EGLint
	if C.eglGetConfigAttrib(c.eglDisplay, config, C.EGL_NATIVE_VISUAL_ID, &visualID) == C.EGL_FALSE {
		return nil, fmt.Errorf("failed to get native visual ID")
	}

	screen := C.XDefaultScreen(c.display)
	root := C.XRootWindow(c.display, screen)

	var template C.XVisualInfo
	template.visualid = C.VisualID(visualID)
	var nitems C.int
	visual := C.XGetVisualInfo(c.display, C.VisualIDMask, &template, &nitems)
	if visual == nil {
		return nil, fmt.Errorf("failed to get visual info for visual ID %d", visualID)
	}
	defer C.XFree(unsafe.Pointer(visual))

	width, height = graphics.ResolveWindowSize(width, height, fullscreen,
		int(C.XDisplayWidth(c.display, screen)), int(C.XDisplayHeight(c.display, screen)))

	var swa C.XSetWindowAttributes
	swa.background_pixel = 0
	swa.colormap = C.XCreateColormap(c.display, root, visual.visual, C.AllocNone)
	swa.event_mask = C.ExposureMask | C.StructureNotifyMask | C.KeyPressMask | C.PointerMotionMask
	swa.override_redirect = 0

	c.window = C.XCreateWindow(c.display, root, 0, 0, C.uint(width), C.uint(height), 0,
		visual.depth, C.InputOutput, visual.visual,
		C.CWBackPixel|C.CWColormap|C.CWEventMask|C.CWOverrideRedirect, &swa)

	ctitle := C.CString(title)
	C.XStoreName(c.display, c.window, ctitle)
	C.free(unsafe.Pointer(ctitle))

	if fullscreen {
		C.set_fullscreen_hint(c.display, c.window)
	}

	C.XMapWindow(c.display, c.window)
	C.XFlush(c.display)

	c.eglSurface = C.eglCreateWindowSurface(c.eglDisplay, config, C.EGLNativeWindowType(c.window), nil)
	if c.eglSurface == C.EGLSurface(C.EGL_NO_SURFACE) {
		return nil, fmt.Errorf("failed to create EGL window surface")
	}

	if C.eglMakeCurrent(c.eglDisplay, c.eglSurface, c.eglSurface, c.eglContext) == C.EGL_FALSE {
		return nil, fmt.Errorf("failed to make EGL context current")
	}

	var attrs C.XWindowAttributes
	if C.XGetWindowAttributes(c.display, c.window, &attrs) == 0 {
		return nil, fmt.Errorf("failed to get window size")
	}
	c.width, c.height = int(attrs.width), int(attrs.height)

	logger.Debug("window mapped", "width", c.width, "height", c.height, "fullscreen", fullscreen)
	return c, nil
}

// DrainEvents decodes everything the X server has queued without blocking.
func (c *Context) DrainEvents() []graphics.Event {
	var events []graphics.Event
	for C.XPending(c.display) > 0 {
		var ev C.XEvent
		C.XNextEvent(c.display, &ev)
		if decoded := c.decode(&ev); decoded != nil {
			events = append(events, decoded)
		}
	}
	return events
}

func (c *Context) decode(event *C.XEvent) graphics.Event {
	switch (*C.XAnyEvent)(unsafe.Pointer(event))._type {
	case C.ConfigureNotify:
		conf := (*C.XConfigureEvent)(unsafe.Pointer(event))
		c.width, c.height = int(conf.width), int(conf.height)
		return graphics.ConfigureEvent{Width: c.width, Height: c.height}
	case C.KeyPress:
		key := (*C.XKeyEvent)(unsafe.Pointer(event))
		sym := C.XLookupKeysym(key, 0)
		return graphics.KeyPressEvent{Sym: graphics.KeySym(sym)}
	case C.MotionNotify:
		motion := (*C.XMotionEvent)(unsafe.Pointer(event))
		return graphics.MotionEvent{X: int(motion.x), Y: int(motion.y)}
	case C.Expose:
		return graphics.ExposeEvent{}
	}
	return nil
}

func (c *Context) SwapBuffers() {
	C.eglSwapBuffers(c.eglDisplay, c.eglSurface)
}

// Size returns the drawable size, tracking ConfigureNotify as events are
// drained.
func (c *Context) Size() (int, int) { return c.width, c.height }

// Shutdown releases EGL and X11 state in reverse bring-up order. The
// caller deletes its GL objects before calling this.
func (c *Context) Shutdown() {
	if c.eglDisplay != C.EGLDisplay(C.EGL_NO_DISPLAY) {
		C.eglMakeCurrent(c.eglDisplay, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
		if c.eglContext != C.EGLContext(C.EGL_NO_CONTEXT) {
			C.eglDestroyContext(c.eglDisplay, c.eglContext)
		}
		if c.eglSurface != C.EGLSurface(C.EGL_NO_SURFACE) {
			C.eglDestroySurface(c.eglDisplay, c.eglSurface)
		}
		C.eglTerminate(c.eglDisplay)
	}
	if c.display != nil {
		if c.window != 0 {
			C.XDestroyWindow(c.display, c.window)
		}
		C.XCloseDisplay(c.display)
		c.display = nil
	}
}
