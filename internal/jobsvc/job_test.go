package jobsvc

import (
	"context"
	"testing"

	jobstore "github.com/cwbudde/primify/internal/jobsvc/store"
	"github.com/cwbudde/primify/internal/model"
	"github.com/cwbudde/primify/internal/raster"
	"github.com/cwbudde/primify/internal/shape"
)

func newTestJob(t *testing.T, mgr *Manager) *Job {
	t.Helper()
	target := raster.NewBitmap(12, 12, raster.RGBA{200, 60, 20, 255})
	m := model.New(target)
	m.SetSeed(5)
	return mgr.CreateJob(m, JobConfig{
		RefPath:      "target.png",
		Kinds:        []shape.Kind{shape.KindRectangle},
		Alpha:        180,
		ShapeCount:   10,
		MaxMutations: 10,
		MaxThreads:   2,
		TargetSteps:  3,
		Convergence:  DisabledConvergenceConfig(),
	})
}

func TestManagerCreateGetListDelete(t *testing.T) {
	mgr := NewManager()
	job := newTestJob(t, mgr)

	got, ok := mgr.GetJob(job.ID)
	if !ok || got != job {
		t.Fatalf("GetJob(%s) = %v, %v; want the created job", job.ID, got, ok)
	}
	if len(mgr.ListJobs()) != 1 {
		t.Errorf("ListJobs() returned %d jobs, want 1", len(mgr.ListJobs()))
	}
	if err := mgr.DeleteJob(job.ID); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}
	if _, ok := mgr.GetJob(job.ID); ok {
		t.Error("job still present after DeleteJob")
	}
}

// Property 10 from spec.md §8 (job lifecycle): a job steps to its
// target step count and transitions pending -> running -> completed.
func TestRunStepsToTargetAndCompletes(t *testing.T) {
	mgr := NewManager()
	job := newTestJob(t, mgr)

	if err := Run(context.Background(), mgr, nil, job.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, _ := mgr.GetJob(job.ID)
	if got.State != StateCompleted {
		t.Errorf("state after Run = %v, want completed", got.State)
	}
	if len(got.Shapes) != 3 {
		t.Errorf("committed %d shapes, want 3 (TargetSteps)", len(got.Shapes))
	}
	if got.EndTime == nil {
		t.Error("EndTime not set after completion")
	}
}

func TestRunCancellationMarksJobCancelled(t *testing.T) {
	mgr := NewManager()
	job := newTestJob(t, mgr)
	_ = mgr.UpdateJob(job.ID, func(j *Job) { j.Config.TargetSteps = 0 }) // unbounded

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already cancelled before Run starts stepping

	err := Run(ctx, mgr, nil, job.ID)
	if err == nil {
		t.Fatal("expected context.Canceled error")
	}
	got, _ := mgr.GetJob(job.ID)
	if got.State != StateCancelled {
		t.Errorf("state after cancellation = %v, want cancelled", got.State)
	}
}

// Property 9 from spec.md §8: a checkpoint round-trips the committed
// shape sequence, canvas, score, and seed offset exactly.
func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st, err := jobstore.NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}

	mgr := NewManager()
	job := newTestJob(t, mgr)
	if err := Run(context.Background(), mgr, st, job.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}

	cp, err := st.LoadCheckpoint(job.ID)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if cp.LastScore != job.Model.Score() {
		t.Errorf("checkpoint lastScore = %v, want %v", cp.LastScore, job.Model.Score())
	}
	if cp.SeedOffset != job.Model.SeedOffset() {
		t.Errorf("checkpoint seedOffset = %v, want %v", cp.SeedOffset, job.Model.SeedOffset())
	}
	if len(cp.CommittedShapes) != len(job.Shapes) {
		t.Errorf("checkpoint has %d committed shapes, want %d", len(cp.CommittedShapes), len(job.Shapes))
	}

	target := raster.NewBitmap(12, 12, raster.RGBA{200, 60, 20, 255})
	resumed, err := Resume(mgr, target, cp)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resumed.Model.Score() != cp.LastScore {
		t.Errorf("resumed model score = %v, want %v", resumed.Model.Score(), cp.LastScore)
	}
	if resumed.Model.SeedOffset() != cp.SeedOffset {
		t.Errorf("resumed model seed offset = %v, want %v", resumed.Model.SeedOffset(), cp.SeedOffset)
	}
}
