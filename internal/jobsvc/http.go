package jobsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cwbudde/primify/internal/export"
	jobstore "github.com/cwbudde/primify/internal/jobsvc/store"
	"github.com/cwbudde/primify/internal/model"
	"github.com/cwbudde/primify/internal/shape"
)

// Server exposes the job API over HTTP: create, inspect, export, resume,
// and delete jobs, backed by a Manager and an optional checkpoint Store.
type Server struct {
	mgr    *Manager
	store  jobstore.Store
	addr   string
	server *http.Server
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates an HTTP server around mgr. If st is nil,
// checkpointing is disabled.
func NewServer(addr string, mgr *Manager, st jobstore.Store) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{mgr: mgr, store: st, addr: addr, ctx: ctx, cancel: cancel}
}

// Start runs the HTTP server until it is shut down or fails to listen.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/jobs", s.handleJobs)
	mux.HandleFunc("/api/v1/jobs/", s.handleJobsWithID)

	s.server = &http.Server{Addr: s.addr, Handler: s.corsMiddleware(mux)}
	slog.Info("starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting new work, checkpoints running jobs, and
// closes the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP server")
	s.cancel()

	if s.store != nil {
		for _, job := range s.mgr.GetRunningJobs() {
			if err := saveCheckpoint(s.store, job); err != nil {
				slog.Error("checkpoint on shutdown failed", "job_id", job.ID, "error", err)
			}
		}
	}

	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateJob(w, r)
	case http.MethodGet:
		s.handleListJobs(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleJobsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	parts := strings.SplitN(path, "/", 2)
	if parts[0] == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("job id required"))
		return
	}
	jobID := parts[0]
	sub := ""
	if len(parts) > 1 {
		sub = parts[1]
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		s.handleGetJob(w, r, jobID)
	case sub == "" && r.Method == http.MethodDelete:
		s.handleDeleteJob(w, r, jobID)
	case sub == "image" && r.Method == http.MethodGet:
		s.handleImage(w, r, jobID)
	case sub == "resume" && r.Method == http.MethodPost:
		s.handleResume(w, r, jobID)
	default:
		writeError(w, http.StatusNotFound, fmt.Errorf("not found"))
	}
}

// handleCreateJob handles POST /api/v1/jobs: a multipart form carrying
// the target image plus an optional "config" field of step-configuration
// JSON.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	file, header, err := r.FormFile("target")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("target image is required: %w", err))
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to decode target image: %w", err))
		return
	}
	target := bitmapFromImage(img)

	var req struct {
		Kinds        []int  `json:"kinds"`
		Alpha        int    `json:"alpha"`
		ShapeCount   int    `json:"shapeCount"`
		MaxMutations int    `json:"maxMutations"`
		MaxThreads   int    `json:"maxThreads"`
		Seed         uint32 `json:"seed"`
		TargetSteps  int    `json:"targetSteps"`
	}
	if cfg := r.FormValue("config"); cfg != "" {
		if err := json.Unmarshal([]byte(cfg), &req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid config JSON: %w", err))
			return
		}
	}
	if len(req.Kinds) == 0 {
		req.Kinds = intKinds(shape.AllKinds)
	}
	if req.Alpha == 0 {
		req.Alpha = 128
	}
	if req.ShapeCount == 0 {
		req.ShapeCount = 50
	}
	if req.MaxMutations == 0 {
		req.MaxMutations = 100
	}

	kinds := make([]shape.Kind, len(req.Kinds))
	for i, k := range req.Kinds {
		kinds[i] = shape.Kind(k)
	}

	m := model.New(target)
	m.SetSeed(req.Seed)

	job := s.mgr.CreateJob(m, JobConfig{
		RefPath:      header.Filename,
		Kinds:        kinds,
		Alpha:        uint8(req.Alpha),
		ShapeCount:   req.ShapeCount,
		MaxMutations: req.MaxMutations,
		MaxThreads:   req.MaxThreads,
		Seed:         req.Seed,
		TargetSteps:  req.TargetSteps,
		Convergence:  DefaultConvergenceConfig(),
	})

	go Run(s.ctx, s.mgr, s.store, job.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": job.ID, "state": "queued"})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.mgr.ListJobs())
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, ok := s.mgr.GetJob(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("job not found: %s", jobID))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":        job.ID,
		"state":     job.State,
		"steps":     len(job.Shapes),
		"lastScore": job.Model.Score(),
	})
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if err := s.mgr.DeleteJob(jobID); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if s.store != nil {
		if err := s.store.DeleteCheckpoint(jobID); err != nil {
			slog.Warn("failed to delete checkpoint", "job_id", jobID, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImage handles GET /api/v1/jobs/{id}/image?format=png|svg|json|bmp
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request, jobID string) {
	job, ok := s.mgr.GetJob(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("job not found: %s", jobID))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "png"
	}

	switch format {
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
		fmt.Fprint(w, export.SVG(job.Model.Width(), job.Model.Height(), job.Shapes))
	case "json":
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(export.ShapeArray(job.Shapes))
	case "bmp":
		w.Header().Set("Content-Type", "image/bmp")
		w.Write(export.BMP(job.Model.Current()))
	case "png":
		w.Header().Set("Content-Type", "image/png")
		encodePNG(w, job.Model.Current())
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown format: %s", format))
	}
}

// handleResume handles POST /api/v1/jobs/{id}/resume. The target image
// is re-supplied as a multipart upload: the checkpoint only carries the
// in-progress canvas, not the original reference image.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request, jobID string) {
	if s.store == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("checkpointing is disabled"))
		return
	}

	cp, err := s.store.LoadCheckpoint(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("checkpoint not found: %w", err))
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	file, _, err := r.FormFile("target")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("target image is required to resume: %w", err))
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to decode target image: %w", err))
		return
	}
	target := bitmapFromImage(img)

	job, err := Resume(s.mgr, target, cp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	go Run(s.ctx, s.mgr, s.store, job.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": job.ID, "state": "resumed"})
}

func intKinds(kinds []shape.Kind) []int {
	out := make([]int, len(kinds))
	for i, k := range kinds {
		out[i] = int(k)
	}
	return out
}
