package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jameson789/colortrack/internal/imaging"
	"github.com/jameson789/colortrack/internal/pipeline"
	"github.com/jameson789/colortrack/internal/regions"
	"github.com/jameson789/colortrack/internal/source"
	"github.com/jameson789/colortrack/pkg/metrics"
)

// jobRequest is the POST /jobs body.
type jobRequest struct {
	// Source is a video file path or a directory of still frames.
	Source string `json:"source"`

	// TargetColor is a 6-hex-digit RGB triple, with or without "#".
	TargetColor string `json:"target_color"`

	// Threshold is the color-distance cutoff, 0-255. Required.
	Threshold *int `json:"threshold"`

	// Areas is an optional inline region declaration object of the
	// form {"name": {"x":..,"y":..,"width":..,"height":..}, ...}.
	Areas json.RawMessage `json:"areas,omitempty"`

	// TaskID names the output artifacts; a fresh UUID is assigned
	// when empty.
	TaskID string `json:"task_id,omitempty"`

	// BlurRadius optionally Gaussian-blurs frames before analysis.
	BlurRadius float64 `json:"blur_radius,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleSubmitJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	if req.Source == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing source")
		return
	}
	if _, err := os.Stat(req.Source); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("source not accessible: %v", err))
		return
	}

	target, err := imaging.ParseHexColor(req.TargetColor)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if req.Threshold == nil || *req.Threshold < 0 || *req.Threshold > 255 {
		writeError(w, http.StatusBadRequest, "bad_request", "threshold must be an integer in [0,255]")
		return
	}

	var regionSet *regions.Set
	if len(req.Areas) > 0 {
		regionSet, err = regions.ParseJSON(bytes.NewReader(req.Areas))
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_regions", err.Error())
			return
		}
	}

	taskID := req.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}

	job := Job{
		ID:          taskID,
		Source:      req.Source,
		TargetColor: req.TargetColor,
		Threshold:   *req.Threshold,
		State:       StatePending,
		Submitted:   time.Now().UTC(),
	}
	s.store.put(job)

	opts := pipeline.Options{
		Target:     target,
		Threshold:  *req.Threshold,
		BlurRadius: req.BlurRadius,
		Regions:    regionSet,
		Logger:     s.log.With("job", taskID),
	}
	go s.runJob(job, opts)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, job)
}

// runJob executes one submission to completion in the background.
// Jobs share nothing: each owns its source, pipeline state, and
// artifact files.
func (s *Server) runJob(job Job, opts pipeline.Options) {
	ctx := context.Background()
	started := time.Now()

	s.store.update(job.ID, func(j *Job) { j.State = StateRunning })

	src, err := s.openSource(ctx, job.Source)
	if err != nil {
		s.failJob(job.ID, started, err)
		return
	}

	artifacts, res, err := pipeline.RunToFiles(ctx, src, opts, pipeline.ArtifactOptions{
		ResultDir:     s.cfg.ResultDir,
		BaseName:      pipeline.BaseNameOf(job.Source),
		TaskID:        job.ID,
		Thumbnail:     s.cfg.Thumbnails,
		ThumbnailSize: s.cfg.ThumbnailSize,
	})
	if err != nil {
		s.failJob(job.ID, started, err)
		return
	}

	now := time.Now().UTC()
	s.store.update(job.ID, func(j *Job) {
		j.State = StateDone
		j.Artifacts = artifacts
		j.RowsWritten = res.RowsWritten
		j.Finished = &now
	})
	metrics.RecordJob("done", time.Since(started).Seconds())
	s.log.Info("job finished", "job", job.ID, "rows", res.RowsWritten, "seconds", res.Seconds)
}

func (s *Server) failJob(id string, started time.Time, err error) {
	now := time.Now().UTC()
	s.store.update(id, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.Finished = &now
	})
	metrics.RecordJob("failed", time.Since(started).Seconds())
	s.log.Error("job failed", "job", id, "error", err)
}

// openSource picks the frame source by input kind: a directory of
// stills or an ffmpeg-decodable video file.
func (s *Server) openSource(ctx context.Context, path string) (source.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("source not accessible: %w", err)
	}
	if info.IsDir() {
		return source.OpenDir(path)
	}

	var opts []source.FFmpegOption
	if s.cfg.FFmpegPath != "" {
		opts = append(opts, source.WithFFmpegBinary(s.cfg.FFmpegPath))
	}
	if s.cfg.FFprobePath != "" {
		opts = append(opts, source.WithFFprobeBinary(s.cfg.FFprobePath))
	}
	return source.OpenFFmpeg(ctx, path, opts...)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, ok := s.store.get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("unknown job %q", id))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]any{"jobs": s.store.list()})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": "ok"})
}

// metricsMiddleware records request counts per endpoint, method, and
// status code.
func (s *Server) metricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(wrapped.status))
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, errorResponse{Code: code, Message: msg})
}
