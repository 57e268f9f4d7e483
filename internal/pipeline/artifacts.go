package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jameson789/colortrack/internal/source"
)

// Artifacts names the files a job produced. SummaryPath and
// ThumbnailPath are empty when the corresponding artifact was not
// written.
type Artifacts struct {
	CSVPath       string `json:"csv_path"`
	SummaryPath   string `json:"summary_path,omitempty"`
	ThumbnailPath string `json:"thumbnail_path,omitempty"`
}

// ArtifactOptions controls artifact naming and extras.
type ArtifactOptions struct {
	// ResultDir receives all artifacts; it is created if missing.
	ResultDir string

	// BaseName is the input's file name without extension; artifact
	// names are "<BaseName>_<TaskID>.csv" and derivatives.
	BaseName string

	// TaskID distinguishes repeated jobs over the same input.
	TaskID string

	// Thumbnail requests a "<BaseName>_<TaskID>_thumb.png" rendered
	// from the first decodable frame.
	Thumbnail bool

	// ThumbnailSize bounds the thumbnail's longer side in pixels.
	ThumbnailSize int
}

// BaseNameOf derives an artifact base name from an input path:
// the file name with its extension removed.
func BaseNameOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// RunToFiles executes Run and persists its outputs under
// art.ResultDir: the per-second CSV always, the summary only when the
// job qualifies for one (regions active and data present), and the
// thumbnail when requested.
//
// On failure or cancellation the CSV written so far is kept: partial
// output through the last fully processed second is valid by contract.
func RunToFiles(ctx context.Context, src source.Source, opts Options, art ArtifactOptions) (*Artifacts, *Result, error) {
	if err := os.MkdirAll(art.ResultDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating result dir: %w", err)
	}
	csvPath := filepath.Join(art.ResultDir, fmt.Sprintf("%s_%s.csv", art.BaseName, art.TaskID))

	out := &Artifacts{CSVPath: csvPath}
	if art.Thumbnail {
		out.ThumbnailPath = filepath.Join(art.ResultDir, fmt.Sprintf("%s_%s_thumb.png", art.BaseName, art.TaskID))
		opts.ThumbnailPath = out.ThumbnailPath
		opts.ThumbnailSize = art.ThumbnailSize
	}

	csvFile, err := os.Create(csvPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating csv: %w", err)
	}

	res, runErr := Run(ctx, src, opts, csvFile)
	if closeErr := csvFile.Close(); closeErr != nil && runErr == nil {
		runErr = fmt.Errorf("closing csv: %w", closeErr)
	}
	if runErr != nil {
		return out, res, runErr
	}

	if res.HasSummary() {
		summaryPath := strings.TrimSuffix(csvPath, ".csv") + "_summary.txt"
		summaryFile, err := os.Create(summaryPath)
		if err != nil {
			return out, res, fmt.Errorf("creating summary: %w", err)
		}
		if err := WriteSummary(summaryFile, res); err != nil {
			summaryFile.Close()
			return out, res, fmt.Errorf("writing summary: %w", err)
		}
		if err := summaryFile.Close(); err != nil {
			return out, res, fmt.Errorf("closing summary: %w", err)
		}
		out.SummaryPath = summaryPath
	}

	return out, res, nil
}
