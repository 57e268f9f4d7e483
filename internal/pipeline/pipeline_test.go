package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jameson789/colortrack/internal/imaging"
	"github.com/jameson789/colortrack/internal/regions"
	"github.com/jameson789/colortrack/internal/source"
	"github.com/jameson789/colortrack/internal/timeline"
)

// fakeSource serves in-memory frames and records which indexes the
// sampler asked for.
type fakeSource struct {
	fps       float64
	duration  float64
	frames    map[int]image.Image
	requested []int
}

func (f *fakeSource) FrameRate() float64 { return f.fps }
func (f *fakeSource) Duration() float64  { return f.duration }

func (f *fakeSource) FrameAt(_ context.Context, index int) (image.Image, error) {
	f.requested = append(f.requested, index)
	img, ok := f.frames[index]
	if !ok {
		return nil, source.ErrNoFrame
	}
	return img, nil
}

// frameWithBlock renders a 20x20 white frame with a 3x3 red block
// whose top-left corner is at (x, y); its centroid is (x+1, y+1).
func frameWithBlock(x, y int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for py := 0; py < 20; py++ {
		for px := 0; px < 20; px++ {
			img.Set(px, py, color.White)
		}
	}
	for py := y; py < y+3; py++ {
		for px := x; px < x+3; px++ {
			img.Set(px, py, color.RGBA{255, 0, 0, 255})
		}
	}
	return img
}

// blankFrame renders a 20x20 frame with no foreground.
func blankFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for py := 0; py < 20; py++ {
		for px := 0; px < 20; px++ {
			img.Set(px, py, color.White)
		}
	}
	return img
}

func mustRegions(t *testing.T, doc string) *regions.Set {
	t.Helper()
	set, err := regions.ParseJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parsing regions: %v", err)
	}
	return set
}

func redOptions(t *testing.T) Options {
	t.Helper()
	target, err := imaging.ParseHexColor("FF0000")
	if err != nil {
		t.Fatalf("ParseHexColor failed: %v", err)
	}
	return Options{Target: target, Threshold: 10}
}

func TestRun_EndToEndWithRegions(t *testing.T) {
	// Block at (0,0) -> centroid (1,1), inside "Left". Seconds 3 and 4
	// have no frame; second 5 detects again: two runs, totals 4.
	src := &fakeSource{
		fps:      1,
		duration: 6,
		frames: map[int]image.Image{
			0: frameWithBlock(0, 0),
			1: frameWithBlock(0, 0),
			2: frameWithBlock(0, 0),
			5: frameWithBlock(0, 0),
		},
	}

	opts := redOptions(t)
	opts.Regions = mustRegions(t, `{"Left": {"x":0,"y":0,"width":5,"height":5}}`)

	var csv bytes.Buffer
	res, err := Run(context.Background(), src, opts, &csv)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantCSV := "second,x,y,region\n" +
		"0,1,1,Left\n" +
		"1,1,1,Left\n" +
		"2,1,1,Left\n" +
		"5,1,1,Left\n"
	if csv.String() != wantCSV {
		t.Errorf("csv mismatch:\ngot:\n%s\nwant:\n%s", csv.String(), wantCSV)
	}

	wantRuns := []timeline.Run{
		{Region: "Left", Seconds: 3},
		{Region: "Left", Seconds: 1},
	}
	if diff := cmp.Diff(wantRuns, res.Runs); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}

	wantTotals := []timeline.RegionTotal{{Region: "Left", Seconds: 4}}
	if diff := cmp.Diff(wantTotals, res.Totals); diff != "" {
		t.Errorf("totals mismatch (-want +got):\n%s", diff)
	}

	if res.RowsWritten != 4 || res.Seconds != 6 {
		t.Errorf("RowsWritten=%d Seconds=%d, want 4 and 6", res.RowsWritten, res.Seconds)
	}
	if !res.HasSummary() {
		t.Error("job with labeled seconds must qualify for a summary")
	}
}

func TestRun_WithoutRegions(t *testing.T) {
	src := &fakeSource{
		fps:      1,
		duration: 2,
		frames: map[int]image.Image{
			0: frameWithBlock(4, 6),
			1: blankFrame(),
		},
	}

	var csv bytes.Buffer
	res, err := Run(context.Background(), src, redOptions(t), &csv)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// No region column, and the undetected second 1 is omitted.
	wantCSV := "second,x,y\n0,5,7\n"
	if csv.String() != wantCSV {
		t.Errorf("csv mismatch:\ngot:\n%s\nwant:\n%s", csv.String(), wantCSV)
	}
	if res.HasSummary() {
		t.Error("no-region job must not qualify for a summary")
	}
	if res.RegionsActive {
		t.Error("RegionsActive must be false without a region set")
	}
}

func TestRun_UnlabeledCentroidHasEmptyRegionField(t *testing.T) {
	src := &fakeSource{
		fps:      1,
		duration: 1,
		frames:   map[int]image.Image{0: frameWithBlock(10, 10)},
	}

	opts := redOptions(t)
	opts.Regions = mustRegions(t, `{"Left": {"x":0,"y":0,"width":5,"height":5}}`)

	var csv bytes.Buffer
	res, err := Run(context.Background(), src, opts, &csv)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantCSV := "second,x,y,region\n0,11,11,\n"
	if csv.String() != wantCSV {
		t.Errorf("csv mismatch:\ngot:\n%s\nwant:\n%s", csv.String(), wantCSV)
	}

	wantRuns := []timeline.Run{{Region: "", Seconds: 1}}
	if diff := cmp.Diff(wantRuns, res.Runs); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}
	if len(res.Totals) != 0 {
		t.Errorf("unlabeled seconds must not accrue totals: %v", res.Totals)
	}
	if !res.HasSummary() {
		t.Error("an unlabeled run still makes the summary worth writing")
	}
}

func TestRun_FrameIndexIsFloorOfSecondTimesRate(t *testing.T) {
	src := &fakeSource{fps: 2.5, duration: 3.2}

	var csv bytes.Buffer
	res, err := Run(context.Background(), src, redOptions(t), &csv)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// floor(3.2) = 3 seconds; indexes floor(0*2.5), floor(1*2.5), floor(2*2.5).
	if res.Seconds != 3 {
		t.Errorf("Seconds = %d, want 3", res.Seconds)
	}
	if diff := cmp.Diff([]int{0, 2, 5}, src.requested); diff != "" {
		t.Errorf("frame indexes mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{fps: 1, duration: 10}
	var csv bytes.Buffer
	res, err := Run(ctx, src, redOptions(t), &csv)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if res == nil {
		t.Fatal("canceled Run must still return the partial result")
	}
}

func TestWriteSummary(t *testing.T) {
	res := &Result{
		RegionsActive: true,
		Runs: []timeline.Run{
			{Region: "Left", Seconds: 3},
			{Region: "", Seconds: 2},
			{Region: "Right", Seconds: 1},
		},
		Totals: []timeline.RegionTotal{
			{Region: "Left", Seconds: 3},
			{Region: "Right", Seconds: 1},
		},
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, res); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	want := `=== TOTALS PER REGION ===
centroid in region Left for 3 seconds
centroid in region Right for 1 seconds

=== MOVEMENT TIMELINE (contiguous runs while centroid detected) ===
centroid in region Left for 3 seconds
centroid not in any region for 2 seconds
centroid in region Right for 1 seconds
`
	if buf.String() != want {
		t.Errorf("summary mismatch:\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteSummary_OnlyUnlabeledRuns(t *testing.T) {
	res := &Result{
		RegionsActive: true,
		Runs:          []timeline.Run{{Region: "", Seconds: 4}},
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, res); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "no region totals (centroid never entered any region)") {
		t.Errorf("missing empty-totals placeholder:\n%s", out)
	}
	if !strings.Contains(out, "centroid not in any region for 4 seconds") {
		t.Errorf("missing unlabeled run line:\n%s", out)
	}
}

func TestRunToFiles(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{
		fps:      1,
		duration: 2,
		frames: map[int]image.Image{
			0: frameWithBlock(0, 0),
			1: frameWithBlock(0, 0),
		},
	}

	opts := redOptions(t)
	opts.Regions = mustRegions(t, `{"Left": {"x":0,"y":0,"width":5,"height":5}}`)

	artifacts, res, err := RunToFiles(context.Background(), src, opts, ArtifactOptions{
		ResultDir:     dir,
		BaseName:      "clip",
		TaskID:        "t42",
		Thumbnail:     true,
		ThumbnailSize: 64,
	})
	if err != nil {
		t.Fatalf("RunToFiles failed: %v", err)
	}

	wantCSV := filepath.Join(dir, "clip_t42.csv")
	if artifacts.CSVPath != wantCSV {
		t.Errorf("CSVPath = %s, want %s", artifacts.CSVPath, wantCSV)
	}
	if _, err := os.Stat(artifacts.CSVPath); err != nil {
		t.Errorf("csv artifact missing: %v", err)
	}

	wantSummary := filepath.Join(dir, "clip_t42_summary.txt")
	if artifacts.SummaryPath != wantSummary {
		t.Errorf("SummaryPath = %s, want %s", artifacts.SummaryPath, wantSummary)
	}
	if _, err := os.Stat(artifacts.SummaryPath); err != nil {
		t.Errorf("summary artifact missing: %v", err)
	}

	if _, err := os.Stat(artifacts.ThumbnailPath); err != nil {
		t.Errorf("thumbnail artifact missing: %v", err)
	}

	if res.RowsWritten != 2 {
		t.Errorf("RowsWritten = %d, want 2", res.RowsWritten)
	}
}

func TestRunToFiles_NoSummaryWithoutRegions(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{
		fps:      1,
		duration: 1,
		frames:   map[int]image.Image{0: frameWithBlock(0, 0)},
	}

	artifacts, _, err := RunToFiles(context.Background(), src, redOptions(t), ArtifactOptions{
		ResultDir: dir,
		BaseName:  "clip",
		TaskID:    "t1",
	})
	if err != nil {
		t.Fatalf("RunToFiles failed: %v", err)
	}

	if artifacts.SummaryPath != "" {
		t.Errorf("summary must not be written without regions, got %s", artifacts.SummaryPath)
	}
	if artifacts.ThumbnailPath != "" {
		t.Errorf("thumbnail not requested but path set: %s", artifacts.ThumbnailPath)
	}
}
