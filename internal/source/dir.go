package source

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jameson789/colortrack/internal/imaging"
)

// DirSource serves a directory of still images as a one-frame-per-
// second stream: frame rate 1.0, duration equal to the image count,
// frames ordered by file name. Useful for pre-extracted frame dumps
// and for exercising the pipeline without ffmpeg.
type DirSource struct {
	files []string
}

// OpenDir scans dir for image files (.png, .jpg, .jpeg, .gif) and
// returns a DirSource over them in lexical name order. A directory
// containing no image files is an error: a zero-duration source could
// never produce a sample.
func OpenDir(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no image files in %s", dir)
	}
	sort.Strings(files)

	return &DirSource{files: files}, nil
}

// FrameRate is always 1.0: one still per second.
func (s *DirSource) FrameRate() float64 { return 1.0 }

// Duration returns the number of images, in seconds.
func (s *DirSource) Duration() float64 { return float64(len(s.files)) }

// FrameAt decodes the index-th image. Out-of-range indexes and decode
// failures yield ErrNoFrame.
func (s *DirSource) FrameAt(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(s.files) {
		return nil, ErrNoFrame
	}
	img, err := imaging.LoadImage(s.files[index])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	return img, nil
}
