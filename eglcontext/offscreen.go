//go:build linux

package eglcontext

/*
#cgo LDFLAGS: -lEGL
#include <EGL/egl.h>
*/
import "C"

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tmewett/esshader/graphics"
)

// OffscreenContext is an EGL pbuffer context with no window, for frames
// that are read back instead of presented.
type OffscreenContext struct {
	log *log.Logger

	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface

	width  int
	height int
}

// OpenOffscreen brings up a current GLES2 context on a pbuffer of the
// given size, using the default EGL display so no X server is needed.
func OpenOffscreen(width, height int, logger *log.Logger) (*OffscreenContext, error) {
	o := &OffscreenContext{log: logger, width: width, height: height}

	o.display = C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
	if o.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return nil, fmt.Errorf("failed to get EGL display")
	}

	if C.eglBindAPI(C.EGL_OPENGL_ES_API) == C.EGL_FALSE {
		return nil, fmt.Errorf("failed to bind GLES API")
	}

	var major, minor C.EGLint
	if C.eglInitialize(o.display, &major, &minor) == C.EGL_FALSE {
		return nil, fmt.Errorf("failed to initialize EGL")
	}
	logger.Debug("EGL initialized", "version", fmt.Sprintf("%d.%d", major, minor))

	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
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
	if C.eglChooseConfig(o.display, &configAttribs[0], &config, 1, &numConfig) == C.EGL_FALSE || numConfig == 0 {
		return nil, fmt.Errorf("failed to choose EGL config")
	}

	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(width),
		C.EGL_HEIGHT, C.EGLint(height),
		C.EGL_NONE,
	}
	o.surface = C.eglCreatePbufferSurface(o.display, config, &pbufferAttribs[0])
	if o.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		return nil, fmt.Errorf("failed to create pbuffer surface")
	}

	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_CLIENT_VERSION, 2,
		C.EGL_NONE,
	}
	o.context = C.eglCreateContext(o.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if o.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		return nil, fmt.Errorf("failed to create EGL context")
	}

	if C.eglMakeCurrent(o.display, o.surface, o.surface, o.context) == C.EGL_FALSE {
		return nil, fmt.Errorf("failed to make EGL context current")
	}

	return o, nil
}

// DrainEvents always returns nil; a pbuffer has no event source.
func (o *OffscreenContext) DrainEvents() []graphics.Event { return nil }

func (o *OffscreenContext) SwapBuffers() {
	C.eglSwapBuffers(o.display, o.surface)
}

func (o *OffscreenContext) Size() (int, int) { return o.width, o.height }

func (o *OffscreenContext) Shutdown() {
	if o.display != C.EGLDisplay(C.EGL_NO_DISPLAY) {
		C.eglMakeCurrent(o.display, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
		if o.context != C.EGLContext(C.EGL_NO_CONTEXT) {
			C.eglDestroyContext(o.display, o.context)
		}
		if o.surface != C.EGLSurface(C.EGL_NO_SURFACE) {
			C.eglDestroySurface(o.display, o.surface)
		}
		C.eglTerminate(o.display)
	}
}
