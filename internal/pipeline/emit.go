package pipeline

import (
	"fmt"
	"io"

	"github.com/jameson789/colortrack/internal/timeline"
)

// Per-second output contract: one "second,x,y" row per detected second,
// with a trailing region field (empty when unlabeled) iff regions are
// active. Undetected seconds are omitted entirely, not zero-filled.

func writeHeader(w io.Writer, regionsActive bool) error {
	if regionsActive {
		_, err := fmt.Fprintln(w, "second,x,y,region")
		return err
	}
	_, err := fmt.Fprintln(w, "second,x,y")
	return err
}

func writeRow(w io.Writer, s timeline.Sample, regionsActive bool) error {
	if regionsActive {
		_, err := fmt.Fprintf(w, "%d,%d,%d,%s\n", s.Second, s.X, s.Y, s.Region)
		return err
	}
	_, err := fmt.Fprintf(w, "%d,%d,%d\n", s.Second, s.X, s.Y)
	return err
}

// WriteSummary renders the aggregate report: per-region totals in
// first-occurrence order, then the chronological movement timeline.
// Callers should only invoke it when res.HasSummary() is true; an
// empty result still renders both section headers with placeholder
// lines.
func WriteSummary(w io.Writer, res *Result) error {
	if _, err := fmt.Fprintln(w, "=== TOTALS PER REGION ==="); err != nil {
		return err
	}
	if len(res.Totals) > 0 {
		for _, t := range res.Totals {
			if _, err := fmt.Fprintf(w, "centroid in region %s for %d seconds\n", t.Region, t.Seconds); err != nil {
				return err
			}
		}
	} else {
		if _, err := fmt.Fprintln(w, "no region totals (centroid never entered any region)"); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "=== MOVEMENT TIMELINE (contiguous runs while centroid detected) ==="); err != nil {
		return err
	}
	if len(res.Runs) > 0 {
		for _, run := range res.Runs {
			if err := writeRun(w, run); err != nil {
				return err
			}
		}
	} else {
		if _, err := fmt.Fprintln(w, "no movement timeline (no contiguous stays with centroid detected)"); err != nil {
			return err
		}
	}
	return nil
}

func writeRun(w io.Writer, run timeline.Run) error {
	if run.Region == "" {
		_, err := fmt.Fprintf(w, "centroid not in any region for %d seconds\n", run.Seconds)
		return err
	}
	_, err := fmt.Fprintf(w, "centroid in region %s for %d seconds\n", run.Region, run.Seconds)
	return err
}
