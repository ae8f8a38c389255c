package options

import (
	"flag"
	"os"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 360
)

// Options is the parsed command line. Fields are pointers into the flag
// set; the window options answer to both a short and a long name.
type Options struct {
	SourcePath *string
	Shadertoy  *string
	Fullscreen *bool
	Width      *int
	Height     *int

	Watch      *bool
	Record     *string
	Duration   *float64
	FPS        *int
	Screenshot *string

	Verbose *bool
	Help    *bool
}

// Parse reads the process arguments.
func Parse() *Options {
	// CommandLine is ExitOnError, so the error path never returns.
	o, _ := parse(flag.CommandLine, os.Args[1:])
	return o
}

func parse(fs *flag.FlagSet, args []string) (*Options, error) {
	o := &Options{}

	o.SourcePath = fs.String("source", "", "path to shader program")
	fs.StringVar(o.SourcePath, "s", "", "path to shader program")
	o.Shadertoy = fs.String("shadertoy", "", "shadertoy.com shader ID or URL to fetch")
	o.Fullscreen = fs.Bool("fullscreen", false, "run in fullscreen mode")
	fs.BoolVar(o.Fullscreen, "f", false, "run in fullscreen mode")
	o.Width = fs.Int("width", DefaultWidth, "window width")
	fs.IntVar(o.Width, "w", DefaultWidth, "window width")
	o.Height = fs.Int("height", DefaultHeight, "window height")
	fs.IntVar(o.Height, "h", DefaultHeight, "window height")

	o.Watch = fs.Bool("watch", false, "reload the shader when the source file changes")
	o.Record = fs.String("record", "", "render offscreen into this mp4 file")
	o.Duration = fs.Float64("duration", 10.0, "seconds to record")
	o.FPS = fs.Int("fps", 60, "record frame rate")
	o.Screenshot = fs.String("screenshot", "", "render one offscreen frame into this PNG file")

	o.Verbose = fs.Bool("verbose", false, "debug logging")
	o.Help = fs.Bool("help", false, "show this help")
	fs.BoolVar(o.Help, "?", false, "show this help")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Nonsense sizes and rates fall back to the defaults instead of failing.
	if *o.Width <= 0 {
		*o.Width = DefaultWidth
	}
	if *o.Height <= 0 {
		*o.Height = DefaultHeight
	}
	if *o.FPS <= 0 {
		*o.FPS = 60
	}
	return o, nil
}

// Usage is the help text shown for -? and --help.
func Usage() string {
	return `
Usage: esshader [OPTIONS]
Example: esshader --width 1280 --height 720

Options:
 -f, --fullscreen 	runs the program in fullscreen mode.
 -?, --help 		shows this help.
 -w, --width [value] 	sets the window width to [value].
 -h, --height [value] 	sets the window height to [value].
 -s, --source [path] 	path to shader program
     --shadertoy [id] 	fetches a shader from shadertoy.com by ID or URL.
     --watch 		reloads the shader when the source file changes.
     --record [path] 	renders offscreen into an mp4 file at [path].
     --duration [sec] 	seconds to record (default 10).
     --fps [value] 	frame rate for recording (default 60).
     --screenshot [path] 	renders one frame into a PNG file at [path].
     --verbose 		enables debug logging.
`
}
