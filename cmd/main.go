package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/tmewett/esshader/api"
	"github.com/tmewett/esshader/eglcontext"
	"github.com/tmewett/esshader/encoder"
	"github.com/tmewett/esshader/gles"
	"github.com/tmewett/esshader/graphics"
	"github.com/tmewett/esshader/options"
	"github.com/tmewett/esshader/renderer"
	"github.com/tmewett/esshader/shader"
)

const version = "1.0.0"

func init() {
	// GL and X11 calls stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	opts := options.Parse()

	if *opts.Help {
		fmt.Print(options.Usage())
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "esshader",
	})
	if *opts.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	fmt.Printf("ESShader -  Version: %s\n", version)

	body := shaderBody(opts, logger)

	switch {
	case *opts.Record != "":
		record(opts, body, logger)
	case *opts.Screenshot != "":
		screenshot(opts, body, logger)
	default:
		window(opts, body, logger)
	}
}

// shaderBody resolves the fragment source: a local file, a shader fetched
// from shadertoy.com, or the built-in default.
func shaderBody(opts *options.Options, logger *log.Logger) string {
	if *opts.SourcePath != "" && *opts.Shadertoy != "" {
		logger.Fatal("--source and --shadertoy cannot be combined")
	}

	switch {
	case *opts.SourcePath != "":
		fmt.Printf("Loading shader program: %s\n", *opts.SourcePath)
		src, err := os.ReadFile(*opts.SourcePath)
		if err != nil {
			logger.Fatalf("could not read shader program %s", *opts.SourcePath)
		}
		return string(src)
	case *opts.Shadertoy != "":
		client := api.NewClient(os.Getenv("SHADERTOY_KEY"), logger)
		sh, err := client.Fetch(*opts.Shadertoy)
		if err != nil {
			logger.Fatal("could not fetch shader from shadertoy.com", "shader", *opts.Shadertoy, "err", err)
		}
		body, err := sh.FragmentSource()
		if err != nil {
			logger.Fatal("fetched shader cannot run standalone", "err", err)
		}
		fmt.Printf("Loading Shadertoy shader: %s\n", sh.Title())
		return body
	default:
		return shader.Default
	}
}

func window(opts *options.Options, body string, logger *log.Logger) {
	fmt.Print("Press [ESC] or [q] to exit.\n")
	fmt.Print("Run with --help flag for more information.\n\n")

	ctx, err := eglcontext.Open(*opts.Width, *opts.Height, *opts.Fullscreen, "esshader", logger)
	if err != nil {
		logger.Fatal("graphics startup failed", "err", err)
	}
	defer ctx.Shutdown()

	if err := gles.Init(); err != nil {
		logger.Fatal("failed to initialize GLES bindings", "err", err)
	}

	prog, err := gles.BuildProgram(body)
	if err != nil {
		logger.Fatal("shader build failed", "err", err)
	}

	r := renderer.New(ctx, gles.API{}, prog, logger)
	defer r.Close()

	if *opts.Watch {
		if *opts.SourcePath == "" {
			logger.Warn("--watch needs --source; ignoring")
		} else {
			stop, err := watchSource(r, *opts.SourcePath, logger)
			if err != nil {
				logger.Fatal("failed to watch shader source", "path", *opts.SourcePath, "err", err)
			}
			defer stop()
		}
	}

	r.Run()
}

// watchSource arms hot reloading of the shader file. Editors that save by
// replacing the file drop the watch, so remove and rename re-arm it.
func watchSource(r *renderer.Renderer, path string, logger *log.Logger) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	requests := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
					if err := watcher.Add(path); err != nil {
						logger.Error("failed to re-watch shader source", "err", err)
						continue
					}
				}
				select {
				case requests <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "err", err)
			}
		}
	}()

	r.WatchReload(requests, func() (graphics.Program, error) {
		src, err := os.ReadFile(path)
		if err != nil {
			return graphics.Program{}, fmt.Errorf("could not read shader program %s", path)
		}
		return gles.BuildProgram(string(src))
	})
	return watcher.Close, nil
}

func record(opts *options.Options, body string, logger *log.Logger) {
	width, height := *opts.Width, *opts.Height
	r, ctx := offscreenRenderer(width, height, body, logger)
	defer ctx.Shutdown()
	defer r.Close()

	frames := int(*opts.Duration * float64(*opts.FPS))
	enc := encoder.New(*opts.Record, width, height, *opts.FPS, logger)
	logger.Info("recording", "file", *opts.Record, "frames", frames, "fps", *opts.FPS)
	if err := r.RunOffscreen(frames, *opts.FPS, enc.WriteFrame); err != nil {
		enc.Close()
		logger.Fatal("offscreen rendering failed", "err", err)
	}
	if err := enc.Close(); err != nil {
		logger.Fatal("encoding failed", "err", err)
	}
	logger.Info("recording finished", "file", *opts.Record)
}

func screenshot(opts *options.Options, body string, logger *log.Logger) {
	width, height := *opts.Width, *opts.Height
	r, ctx := offscreenRenderer(width, height, body, logger)
	defer ctx.Shutdown()
	defer r.Close()

	if err := encoder.SavePNG(*opts.Screenshot, r.Screenshot(), width, height); err != nil {
		logger.Fatal("failed to write screenshot", "err", err)
	}
	logger.Info("screenshot written", "file", *opts.Screenshot)
}

func offscreenRenderer(width, height int, body string, logger *log.Logger) (*renderer.Renderer, *eglcontext.OffscreenContext) {
	ctx, err := eglcontext.OpenOffscreen(width, height, logger)
	if err != nil {
		logger.Fatal("graphics startup failed", "err", err)
	}
	if err := gles.Init(); err != nil {
		logger.Fatal("failed to initialize GLES bindings", "err", err)
	}
	prog, err := gles.BuildProgram(body)
	if err != nil {
		logger.Fatal("shader build failed", "err", err)
	}
	return renderer.New(ctx, gles.API{}, prog, logger), ctx
}
