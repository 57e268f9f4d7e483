// Package timeline folds the per-second centroid/region stream into
// contiguous runs and per-region second totals.
package timeline

// Sample is the per-second observation handed to the Aggregator. It is
// transient: produced fresh for each sampled second and not retained
// after aggregation.
type Sample struct {
	Second   int    // Sampled second, counted from 0
	Detected bool   // Whether any foreground group was found
	X, Y     int    // Centroid of the largest group (valid iff Detected)
	Region   string // Containing region name; "" = detected but unlabeled
}

// Run is a maximal contiguous span of seconds during which the centroid
// stayed continuously detected with the same region label. Region ""
// means "detected but not in any region"; a span with no detection at
// all produces no Run.
type Run struct {
	Region  string `json:"region"`  // "" for unlabeled spans
	Seconds int    `json:"seconds"` // Length of the span (> 0)
}

// RegionTotal is the accumulated detected time for one named region.
type RegionTotal struct {
	Region  string `json:"region"`
	Seconds int    `json:"seconds"`
}

// Aggregator is a single-use state machine over a second-ascending
// Sample stream. Feed every sampled second to Observe, then call
// Finish once; Runs and Totals are valid after Finish.
//
// The run sequence records contiguous occupancy (including contiguous
// unlabeled stretches while detected); the totals count seconds spent
// per named region regardless of run boundaries. Totals are kept in
// first-occurrence order.
type Aggregator struct {
	runs     []Run
	totals   []RegionTotal
	totalIdx map[string]int

	current  string // label of the open run, valid iff inRun
	length   int    // length of the open run
	inRun    bool
	finished bool
}

// NewAggregator returns an Aggregator in its initial state: no open
// run, empty run sequence, empty totals.
func NewAggregator() *Aggregator {
	return &Aggregator{
		runs:     make([]Run, 0),
		totals:   make([]RegionTotal, 0),
		totalIdx: make(map[string]int),
	}
}

// Observe advances the state machine by one sampled second.
//
// An undetected sample closes any open run; the gap itself is not
// recorded. A detected sample extends the open run when its label
// matches, otherwise closes it and opens a new one of length 1. Every
// detected sample with a named region additionally increments that
// region's total.
func (a *Aggregator) Observe(s Sample) {
	if a.finished {
		return
	}

	if !s.Detected {
		a.closeRun()
		return
	}

	if s.Region != "" {
		a.addTotal(s.Region)
	}

	switch {
	case !a.inRun:
		a.current = s.Region
		a.length = 1
		a.inRun = true
	case a.current == s.Region:
		a.length++
	default:
		a.closeRun()
		a.current = s.Region
		a.length = 1
		a.inRun = true
	}
}

// Finish closes any still-open run at end of stream. The aggregator
// accepts no further samples afterwards.
func (a *Aggregator) Finish() {
	a.closeRun()
	a.finished = true
}

// Runs returns the chronological run sequence accumulated so far.
func (a *Aggregator) Runs() []Run {
	return append([]Run(nil), a.runs...)
}

// Totals returns per-region second totals in first-occurrence order.
func (a *Aggregator) Totals() []RegionTotal {
	return append([]RegionTotal(nil), a.totals...)
}

func (a *Aggregator) closeRun() {
	if !a.inRun {
		return
	}
	a.runs = append(a.runs, Run{Region: a.current, Seconds: a.length})
	a.inRun = false
	a.current = ""
	a.length = 0
}

func (a *Aggregator) addTotal(region string) {
	if i, ok := a.totalIdx[region]; ok {
		a.totals[i].Seconds++
		return
	}
	a.totalIdx[region] = len(a.totals)
	a.totals = append(a.totals, RegionTotal{Region: region, Seconds: 1})
}
