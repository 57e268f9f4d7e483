// Package source provides decoded-frame sources for the tracking
// pipeline: an ffmpeg-backed video source and a still-image directory
// source.
//
// A Source exposes the stream metadata the sampler needs (frame rate
// and duration) plus random access to decoded frames by index. Frame
// absence is a per-index, non-fatal condition signaled with ErrNoFrame;
// failure to obtain the metadata itself is fatal and reported when the
// source is opened.
package source

import (
	"context"
	"errors"
	"image"
)

// ErrNoFrame reports that no decoded frame is available at the
// requested index (end of stream or a failed decode of that single
// frame). The pipeline treats it as "nothing detected this second".
var ErrNoFrame = errors.New("no frame available")

// Source is a decoded-frame supplier.
//
// Implementations must be safe to use from a single job goroutine;
// they are not required to support concurrent FrameAt calls.
type Source interface {
	// FrameRate returns the stream's frames per second.
	FrameRate() float64

	// Duration returns the stream's total duration in seconds.
	Duration() float64

	// FrameAt returns the decoded frame at the given zero-based frame
	// index, or ErrNoFrame when the index yields no decodable frame.
	FrameAt(ctx context.Context, index int) (image.Image, error)
}
