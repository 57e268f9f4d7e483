// Package pipeline drives the per-second analysis of a frame source:
// sample, binarize, group, classify, aggregate, emit.
//
// One job is one Run call. The pipeline holds no process-wide state;
// every Run owns its grid, group list, and aggregator exclusively, so
// jobs can execute concurrently without contention. Seconds are
// processed strictly in increasing order, and cancellation between
// seconds leaves already-emitted rows valid.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/jameson789/colortrack/internal/detection"
	"github.com/jameson789/colortrack/internal/imaging"
	"github.com/jameson789/colortrack/internal/regions"
	"github.com/jameson789/colortrack/internal/source"
	"github.com/jameson789/colortrack/internal/timeline"
	"github.com/jameson789/colortrack/pkg/metrics"
)

// Options configures one job.
type Options struct {
	// Target is the color to track. Parse with imaging.ParseHexColor.
	Target colorful.Color

	// Threshold is the maximum color distance (0-255) for a pixel to
	// count as foreground. Range validation happens at the submission
	// boundary (CLI or API), not here.
	Threshold int

	// BlurRadius, when positive, Gaussian-blurs each frame before
	// binarization.
	BlurRadius float64

	// Regions is the loaded region set, or nil to run without
	// classification. With a nil set, rows carry no region column and
	// no summary is produced.
	Regions *regions.Set

	// ThumbnailPath, when non-empty, receives a thumbnail rendered
	// from the first decodable sampled frame.
	ThumbnailPath string

	// ThumbnailSize bounds the thumbnail's longer side in pixels.
	// Defaults to 320 when zero.
	ThumbnailSize int

	// Logger receives per-second diagnostics. Defaults to slog.Default.
	Logger *slog.Logger
}

// Result is the aggregate outcome of a completed (or interrupted) job.
type Result struct {
	// Seconds is the number of seconds sampled so far.
	Seconds int

	// RowsWritten is the number of per-second CSV rows emitted.
	// Seconds with no detection produce no row.
	RowsWritten int

	// RegionsActive reports whether a region set was in effect.
	RegionsActive bool

	// Runs is the chronological sequence of contiguous detected spans.
	Runs []timeline.Run

	// Totals is the per-region detected time in first-occurrence order.
	Totals []timeline.RegionTotal
}

// HasSummary reports whether the job produced anything for the
// aggregate summary: regions were active and at least one labeled
// second or run exists.
func (r *Result) HasSummary() bool {
	return r.RegionsActive && (len(r.Runs) > 0 || len(r.Totals) > 0)
}

// Run samples src once per whole second, analyzes each frame, streams
// per-second CSV rows to csv, and returns the aggregated result.
//
// For second s the frame at index floor(s * frameRate) is requested.
// A missing or undecodable frame for one second is not an error; it is
// the same as a frame with no foreground pixels. Malformed grid shape
// (which a well-behaved source can never produce) aborts the job.
//
// On context cancellation Run returns the partial result alongside the
// context error; rows already written remain valid and are not rolled
// back.
func Run(ctx context.Context, src source.Source, opts Options, csv io.Writer) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	regionsActive := opts.Regions.Len() > 0
	seconds := int(src.Duration())
	fps := src.FrameRate()

	if err := writeHeader(csv, regionsActive); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}

	agg := timeline.NewAggregator()
	res := &Result{RegionsActive: regionsActive}
	thumbnailDone := opts.ThumbnailPath == ""

	for s := 0; s < seconds; s++ {
		if err := ctx.Err(); err != nil {
			res.finish(agg)
			return res, err
		}

		sample := timeline.Sample{Second: s}
		frameIndex := int(float64(s) * fps)

		img, err := src.FrameAt(ctx, frameIndex)
		switch {
		case err == nil:
			metrics.RecordFrameSampled()

			if !thumbnailDone {
				thumbnailDone = true
				size := opts.ThumbnailSize
				if size <= 0 {
					size = 320
				}
				if err := imaging.SaveThumbnail(img, size, size, opts.ThumbnailPath); err != nil {
					log.Warn("thumbnail write failed", "path", opts.ThumbnailPath, "error", err)
				}
			}

			grid := imaging.BinarizeWithOptions(img, opts.Target, opts.Threshold, imaging.BinarizeOptions{
				BlurRadius: opts.BlurRadius,
			})
			groups, err := detection.FindGroups(grid)
			if err != nil {
				res.finish(agg)
				return res, fmt.Errorf("second %d: %w", s, err)
			}

			if g, ok := detection.Largest(groups); ok {
				sample.Detected = true
				sample.X = g.X
				sample.Y = g.Y
				if regionsActive {
					sample.Region, _ = opts.Regions.Classify(g.X, g.Y)
				}
				metrics.RecordDetection()

				if err := writeRow(csv, sample, regionsActive); err != nil {
					res.finish(agg)
					return res, fmt.Errorf("writing csv row: %w", err)
				}
				res.RowsWritten++
			}

		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			res.finish(agg)
			return res, err

		default:
			// One bad frame is one undetected second, never a failed job.
			metrics.RecordFrameUnavailable()
			if !errors.Is(err, source.ErrNoFrame) {
				log.Warn("frame unavailable", "second", s, "frame", frameIndex, "error", err)
			} else {
				log.Debug("no frame", "second", s, "frame", frameIndex)
			}
		}

		agg.Observe(sample)
		res.Seconds = s + 1
	}

	res.finish(agg)
	return res, nil
}

func (r *Result) finish(agg *timeline.Aggregator) {
	agg.Finish()
	r.Runs = agg.Runs()
	r.Totals = agg.Totals()
}
