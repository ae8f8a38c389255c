package encoder

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Encoder pipes raw RGBA frames into an ffmpeg process that writes an
// H.264 MP4. GL readbacks arrive bottom-up, so the output chain flips
// every frame.
type Encoder struct {
	log *log.Logger

	pipeWriter *io.PipeWriter
	done       chan error

	frameSize int
}

// New starts ffmpeg consuming a width x height RGBA stream at the given
// frame rate and writing to path. Frames go in through WriteFrame; Close
// finishes the file.
func New(path string, width, height, fps int, logger *log.Logger) *Encoder {
	pipeReader, pipeWriter := io.Pipe()

	e := &Encoder{
		log:        logger,
		pipeWriter: pipeWriter,
		done:       make(chan error, 1),
		frameSize:  width * height * 4,
	}

	cmd := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": strconv.Itoa(fps),
	}).Output(path, ffmpeg.KwArgs{
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
		"vf":      "vflip",
		"r":       strconv.Itoa(fps),
	}).OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	logger.Debug("starting ffmpeg", "output", path, "size", fmt.Sprintf("%dx%d", width, height), "fps", fps)
	go func() {
		e.done <- cmd.Run()
	}()

	return e
}

// WriteFrame queues one RGBA frame, blocking while ffmpeg catches up.
func (e *Encoder) WriteFrame(pix []byte) error {
	if len(pix) != e.frameSize {
		return fmt.Errorf("frame is %d bytes, want %d", len(pix), e.frameSize)
	}
	_, err := e.pipeWriter.Write(pix)
	return err
}

// Close ends the stream and waits for ffmpeg to finish the file.
func (e *Encoder) Close() error {
	e.pipeWriter.Close()
	if err := <-e.done; err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	e.log.Debug("encode finished")
	return nil
}
