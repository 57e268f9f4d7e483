package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpegSource decodes frames from a video file by shelling out to
// ffmpeg, with stream metadata probed once via ffprobe at open time.
//
// A probe failure is job-fatal: without frame rate and duration the
// sampler cannot run at all. A failed extraction of a single frame is
// downgraded to ErrNoFrame.
type FFmpegSource struct {
	path       string
	ffmpegBin  string
	ffprobeBin string
	frameRate  float64
	duration   float64
}

// FFmpegOption customizes an FFmpegSource.
type FFmpegOption func(*FFmpegSource)

// WithFFmpegBinary overrides the ffmpeg executable path (default
// "ffmpeg", resolved via PATH).
func WithFFmpegBinary(path string) FFmpegOption {
	return func(s *FFmpegSource) { s.ffmpegBin = path }
}

// WithFFprobeBinary overrides the ffprobe executable path (default
// "ffprobe", resolved via PATH).
func WithFFprobeBinary(path string) FFmpegOption {
	return func(s *FFmpegSource) { s.ffprobeBin = path }
}

// probeOutput mirrors the subset of ffprobe's JSON output we consume.
type probeOutput struct {
	Streams []struct {
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// OpenFFmpeg probes the video at path and returns a Source over it.
//
// Returns an error when ffprobe fails, reports no video stream, or
// reports an unusable frame rate or duration; these prevent sampling
// entirely and must abort the job before any output is written.
func OpenFFmpeg(ctx context.Context, path string, opts ...FFmpegOption) (*FFmpegSource, error) {
	s := &FFmpegSource{
		path:       path,
		ffmpegBin:  "ffmpeg",
		ffprobeBin: "ffprobe",
	}
	for _, opt := range opts {
		opt(s)
	}

	cmd := exec.CommandContext(ctx, s.ffprobeBin,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=avg_frame_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	var probe probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &probe); err != nil {
		return nil, fmt.Errorf("ffprobe %s: parsing output: %w", path, err)
	}
	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("ffprobe %s: no video stream", path)
	}

	rate, err := parseFrameRate(probe.Streams[0].AvgFrameRate)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: parsing duration %q: %w", path, probe.Format.Duration, err)
	}

	s.frameRate = rate
	s.duration = duration
	return s, nil
}

// FrameRate returns the probed frames per second.
func (s *FFmpegSource) FrameRate() float64 { return s.frameRate }

// Duration returns the probed duration in seconds.
func (s *FFmpegSource) Duration() float64 { return s.duration }

// FrameAt extracts the frame at the given index as a PNG piped through
// stdout and decodes it.
//
// Seeking is done by timestamp (index / frameRate) with an input-side
// -ss, which lets ffmpeg use keyframe seeking instead of decoding the
// whole stream up to the index. Any extraction or decode failure for
// the single frame is reported as ErrNoFrame.
func (s *FFmpegSource) FrameAt(ctx context.Context, index int) (image.Image, error) {
	if index < 0 {
		return nil, ErrNoFrame
	}
	seek := float64(index) / s.frameRate

	cmd := exec.CommandContext(ctx, s.ffmpegBin,
		"-v", "error",
		"-ss", strconv.FormatFloat(seek, 'f', 6, 64),
		"-i", s.path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-an",
		"-",
	)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: ffmpeg frame %d: %v", ErrNoFrame, index, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%w: ffmpeg frame %d: empty output", ErrNoFrame, index)
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding frame %d: %v", ErrNoFrame, index, err)
	}
	return img, nil
}

// parseFrameRate parses ffprobe's fractional rate form "30000/1001".
func parseFrameRate(raw string) (float64, error) {
	num, den, found := strings.Cut(raw, "/")
	if !found {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate <= 0 {
			return 0, fmt.Errorf("unusable frame rate %q", raw)
		}
		return rate, nil
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("unusable frame rate %q", raw)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 || n <= 0 {
		return 0, fmt.Errorf("unusable frame rate %q", raw)
	}
	return n / d, nil
}
