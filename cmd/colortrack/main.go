// Command colortrack analyzes a video (or a directory of still frames)
// for a moving object of a target color and writes a per-second
// position trace plus, when regions are supplied, a region-occupancy
// summary.
//
// Usage:
//
//	colortrack <input> <hex_target_color> <threshold> <task_id> [--areas-file <path>]
//
// Behavior:
//   - Without --areas-file: CSV rows are "second,x,y".
//   - With --areas-file:    CSV rows are "second,x,y,region" (region may
//     be empty when the centroid is outside every region) and a
//     "<basename>_<taskID>_summary.txt" report is written when there is
//     anything to report.
//   - A regions file that fails to parse logs a warning and the job
//     continues without region classification.
//
// The result directory comes from COLORTRACK_RESULT_DIR (default
// "../results").
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jameson789/colortrack/internal/config"
	"github.com/jameson789/colortrack/internal/imaging"
	"github.com/jameson789/colortrack/internal/pipeline"
	"github.com/jameson789/colortrack/internal/regions"
	"github.com/jameson789/colortrack/internal/source"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("colortrack %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "colortrack: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("colortrack - colored-object position tracing for video")
	fmt.Println()
	fmt.Println("Usage: colortrack <input> <hex_target_color> <threshold> <task_id> [--areas-file <path>]")
	fmt.Println()
	fmt.Println("Arguments:")
	fmt.Println("  input             video file or directory of still frames")
	fmt.Println("  hex_target_color  6-hex-digit RGB triple, e.g. FF0000 or #ff0000")
	fmt.Println("  threshold         color-distance cutoff, 0-255")
	fmt.Println("  task_id           identifier embedded in output file names")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --areas-file <path>  JSON region declarations")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  COLORTRACK_RESULT_DIR   output directory (default ../results)")
	fmt.Println("  COLORTRACK_LOG_LEVEL    debug|info|warn|error")
	fmt.Println("  COLORTRACK_CONFIG       optional YAML config file")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	fs := flag.NewFlagSet("colortrack", flag.ContinueOnError)
	areasFile := fs.String("areas-file", "", "JSON region declarations")
	fs.Usage = usage

	if len(os.Args) < 5 {
		usage()
		return errors.New("expected <input> <hex_target_color> <threshold> <task_id>")
	}
	input, hexColor, rawThreshold, taskID := os.Args[1], os.Args[2], os.Args[3], os.Args[4]
	if err := fs.Parse(os.Args[5:]); err != nil {
		return err
	}

	// Submission-boundary validation: the pipeline assumes these hold.
	target, err := imaging.ParseHexColor(hexColor)
	if err != nil {
		return err
	}
	threshold, err := strconv.Atoi(rawThreshold)
	if err != nil || threshold < 0 || threshold > 255 {
		return fmt.Errorf("threshold %q: must be an integer in [0,255]", rawThreshold)
	}
	if taskID == "" {
		return errors.New("task_id must not be empty")
	}

	// A regions file that fails to load downgrades the job to
	// no-classification mode with a warning.
	var regionSet *regions.Set
	if *areasFile != "" {
		regionSet, err = regions.LoadFile(*areasFile)
		if err != nil {
			log.Warn("continuing without regions", "file", *areasFile, "error", err)
		} else {
			log.Info("loaded regions", "file", *areasFile, "count", regionSet.Len())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openSource(ctx, cfg, input)
	if err != nil {
		return err
	}
	log.Info("input opened", "path", input,
		"fps", src.FrameRate(), "duration_seconds", src.Duration())

	artifacts, res, err := pipeline.RunToFiles(ctx, src, pipeline.Options{
		Target:     target,
		Threshold:  threshold,
		BlurRadius: cfg.BlurRadius,
		Regions:    regionSet,
		Logger:     log,
	}, pipeline.ArtifactOptions{
		ResultDir:     cfg.ResultDir,
		BaseName:      pipeline.BaseNameOf(input),
		TaskID:        taskID,
		Thumbnail:     cfg.Thumbnails,
		ThumbnailSize: cfg.ThumbnailSize,
	})
	if err != nil {
		return err
	}

	log.Info("processing complete", "csv", artifacts.CSVPath,
		"rows", res.RowsWritten, "seconds", res.Seconds)
	if artifacts.SummaryPath != "" {
		log.Info("summary written", "path", artifacts.SummaryPath)
	}
	return nil
}

func openSource(ctx context.Context, cfg *config.Config, input string) (source.Source, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("input not accessible: %w", err)
	}
	if info.IsDir() {
		return source.OpenDir(input)
	}

	var opts []source.FFmpegOption
	if cfg.FFmpegPath != "" {
		opts = append(opts, source.WithFFmpegBinary(cfg.FFmpegPath))
	}
	if cfg.FFprobePath != "" {
		opts = append(opts, source.WithFFprobeBinary(cfg.FFprobePath))
	}
	return source.OpenFFmpeg(ctx, input, opts...)
}
