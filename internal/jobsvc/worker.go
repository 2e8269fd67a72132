package jobsvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/cwbudde/primify/internal/export"
	jobstore "github.com/cwbudde/primify/internal/jobsvc/store"
)

// checkpointInterval bounds how often Run persists a checkpoint while a
// job is stepping, independent of how fast steps themselves complete.
const checkpointInterval = 5 * time.Second

// Run steps jobID's model until it converges, exhausts its configured
// step budget, or ctx is cancelled, checkpointing periodically to
// checkpointStore if non-nil.
func Run(ctx context.Context, mgr *Manager, checkpointStore jobstore.Store, jobID string) error {
	job, ok := mgr.GetJob(jobID)
	if !ok {
		return &jobstore.NotFoundError{JobID: jobID}
	}

	if err := mgr.UpdateJob(jobID, func(j *Job) { j.State = StateRunning }); err != nil {
		return err
	}

	slog.Info("starting job", "job_id", jobID, "ref", job.Config.RefPath)

	tracer := openTrace(checkpointStore, jobID, len(job.Shapes) > 0)
	if tracer != nil {
		defer func() {
			if err := tracer.Close(); err != nil {
				slog.Warn("failed to close trace writer", "job_id", jobID, "error", err)
			}
		}()
		if err := tracer.Write(jobstore.TraceEntry{Step: len(job.Shapes), Score: job.Model.Score(), Timestamp: time.Now()}); err != nil {
			slog.Warn("failed to write trace entry", "job_id", jobID, "error", err)
		}
	}

	tracker := NewConvergenceTracker(job.Config.Convergence)
	lastCheckpoint := time.Now()

	for job.Config.TargetSteps == 0 || len(job.Shapes) < job.Config.TargetSteps {
		select {
		case <-ctx.Done():
			markJobState(mgr, jobID, StateCancelled, nil)
			slog.Info("job cancelled", "job_id", jobID, "steps", len(job.Shapes))
			return ctx.Err()
		default:
		}

		results := job.Model.Step(job.Config.Kinds, job.Config.Alpha,
			job.Config.ShapeCount, job.Config.MaxMutations, job.Config.MaxThreads)
		if len(results) == 0 {
			break // degenerate configuration; nothing more to do
		}
		job.Shapes = append(job.Shapes, results...)

		if tracer != nil {
			if err := tracer.Write(jobstore.TraceEntry{Step: len(job.Shapes), Score: results[0].Score, Timestamp: time.Now()}); err != nil {
				slog.Warn("failed to write trace entry", "job_id", jobID, "error", err)
			}
		}

		if tracker.Update(results[0].Score) {
			break
		}

		if checkpointStore != nil && time.Since(lastCheckpoint) >= checkpointInterval {
			if err := saveCheckpoint(checkpointStore, job); err != nil {
				slog.Warn("checkpoint save failed", "job_id", jobID, "error", err)
			}
			if tracer != nil {
				if err := tracer.Flush(); err != nil {
					slog.Warn("trace flush failed", "job_id", jobID, "error", err)
				}
			}
			lastCheckpoint = time.Now()
		}
	}

	if checkpointStore != nil {
		if err := saveCheckpoint(checkpointStore, job); err != nil {
			slog.Warn("final checkpoint save failed", "job_id", jobID, "error", err)
		}
	}

	markJobState(mgr, jobID, StateCompleted, nil)
	slog.Info("job completed", "job_id", jobID, "steps", len(job.Shapes), "score", job.Model.Score())
	return nil
}

// traceBaseDir is implemented by checkpoint stores that persist to a
// filesystem directory a TraceWriter/TraceReader can share.
type traceBaseDir interface {
	BaseDir() string
}

// openTrace starts (or resumes) a job's score-history trace alongside
// its checkpoint, when checkpointStore supports it. A nil return means
// tracing is unavailable (no store, or a store backend with no
// filesystem home for a trace.jsonl) and callers should proceed without
// it rather than fail the job.
func openTrace(checkpointStore jobstore.Store, jobID string, resumed bool) *jobstore.TraceWriter {
	fsStore, ok := checkpointStore.(traceBaseDir)
	if !ok {
		return nil
	}
	tw, err := jobstore.NewTraceWriter(fsStore.BaseDir(), jobID, resumed)
	if err != nil {
		slog.Warn("failed to open trace writer", "job_id", jobID, "error", err)
		return nil
	}
	return tw
}

func markJobState(mgr *Manager, jobID string, state State, err error) {
	_ = mgr.UpdateJob(jobID, func(j *Job) {
		j.State = state
		j.Err = err
		now := time.Now()
		j.EndTime = &now
	})
}

func saveCheckpoint(st jobstore.Store, job *Job) error {
	cp := &jobstore.Checkpoint{
		JobID:           job.ID,
		Config:          toStoreConfig(job.Config),
		CommittedShapes: export.ShapeArray(job.Shapes),
		CurrentBitmap:   append([]byte(nil), job.Model.Current().Pix...),
		Width:           job.Model.Width(),
		Height:          job.Model.Height(),
		LastScore:       job.Model.Score(),
		SeedOffset:      job.Model.SeedOffset(),
		Timestamp:       time.Now(),
	}
	return st.SaveCheckpoint(job.ID, cp)
}

func toStoreConfig(c JobConfig) jobstore.JobConfig {
	kinds := make([]int, len(c.Kinds))
	for i, k := range c.Kinds {
		kinds[i] = int(k)
	}
	return jobstore.JobConfig{
		RefPath:      c.RefPath,
		Background:   c.Background,
		Kinds:        kinds,
		Alpha:        int(c.Alpha),
		ShapeCount:   c.ShapeCount,
		MaxMutations: c.MaxMutations,
		MaxThreads:   c.MaxThreads,
		Seed:         c.Seed,
		TargetSteps:  c.TargetSteps,
	}
}
