package server

import (
	"sort"
	"sync"
	"time"

	"github.com/jameson789/colortrack/internal/pipeline"
)

// JobState is the lifecycle phase of a submitted job.
type JobState string

// Job lifecycle states.
const (
	StatePending JobState = "pending"
	StateRunning JobState = "running"
	StateDone    JobState = "done"
	StateFailed  JobState = "failed"
)

// Job is the status record of one submission.
type Job struct {
	ID          string              `json:"id"`
	Source      string              `json:"source"`
	TargetColor string              `json:"target_color"`
	Threshold   int                 `json:"threshold"`
	State       JobState            `json:"state"`
	Error       string              `json:"error,omitempty"`
	Artifacts   *pipeline.Artifacts `json:"artifacts,omitempty"`
	RowsWritten int                 `json:"rows_written"`
	Submitted   time.Time           `json:"submitted"`
	Finished    *time.Time          `json:"finished,omitempty"`
}

// jobStore is a mutex-guarded in-memory job map. All accessors copy
// Job values in and out; callers never share pointers with the store.
type jobStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[string]Job)}
}

func (s *jobStore) put(j Job) {
	s.mu.Lock()
	s.jobs[j.ID] = j
	s.mu.Unlock()
}

func (s *jobStore) get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok
}

// update applies fn to the stored job under the lock.
func (s *jobStore) update(id string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return
	}
	fn(&j)
	s.jobs[id] = j
}

// list returns all jobs, newest submission first.
func (s *jobStore) list() []Job {
	s.mu.RLock()
	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Submitted.After(out[j].Submitted)
	})
	return out
}
