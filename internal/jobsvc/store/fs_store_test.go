package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) (*FSStore, string) {
	t.Helper()
	tempDir := t.TempDir()
	st, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	return st, tempDir
}

func testCheckpoint(jobID string) *Checkpoint {
	return &Checkpoint{
		JobID: jobID,
		Config: JobConfig{
			RefPath:      "testdata/target.png",
			Kinds:        []int{0, 3, 5},
			Alpha:        128,
			ShapeCount:   20,
			MaxMutations: 30,
			Seed:         42,
			TargetSteps:  100,
		},
		CommittedShapes: [][]int{
			{0, 200, 60, 20, 128, 0, 0, 4, 4},
			{5, 10, 10, 5, 128, 2, 2, 3},
		},
		CurrentBitmap: make([]byte, 4*4*4),
		Width:         4,
		Height:        4,
		LastScore:     0.0234,
		SeedOffset:    7,
		Timestamp:     time.Now(),
	}
}

func TestNewFSStore(t *testing.T) {
	tempDir := t.TempDir()
	st, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	if st == nil {
		t.Fatal("expected non-nil store")
	}
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		t.Fatal("base directory was not created")
	}
}

func TestSaveCheckpoint(t *testing.T) {
	st, tempDir := setupTestStore(t)
	jobID := "test-job-123"
	cp := testCheckpoint(jobID)

	if err := st.SaveCheckpoint(jobID, cp); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	expectedPath := filepath.Join(tempDir, "jobs", jobID, "checkpoint.json")
	if _, err := os.Stat(expectedPath); os.IsNotExist(err) {
		t.Fatalf("checkpoint file not created at %s", expectedPath)
	}
	if _, err := os.Stat(expectedPath + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file should not remain after save: %s.tmp", expectedPath)
	}
}

func TestSaveCheckpointEmptyJobID(t *testing.T) {
	st, _ := setupTestStore(t)
	if err := st.SaveCheckpoint("", testCheckpoint("any-id")); err == nil {
		t.Fatal("expected error for empty jobID")
	}
}

func TestSaveCheckpointNilCheckpoint(t *testing.T) {
	st, _ := setupTestStore(t)
	if err := st.SaveCheckpoint("job-1", nil); err == nil {
		t.Fatal("expected error for nil checkpoint")
	}
}

func TestLoadCheckpointRoundTrip(t *testing.T) {
	st, _ := setupTestStore(t)
	jobID := "test-job-456"
	cp := testCheckpoint(jobID)

	if err := st.SaveCheckpoint(jobID, cp); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	loaded, err := st.LoadCheckpoint(jobID)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if loaded.JobID != cp.JobID {
		t.Errorf("JobID = %q, want %q", loaded.JobID, cp.JobID)
	}
	if loaded.LastScore != cp.LastScore {
		t.Errorf("LastScore = %v, want %v", loaded.LastScore, cp.LastScore)
	}
	if loaded.SeedOffset != cp.SeedOffset {
		t.Errorf("SeedOffset = %v, want %v", loaded.SeedOffset, cp.SeedOffset)
	}
	if len(loaded.CommittedShapes) != len(cp.CommittedShapes) {
		t.Errorf("len(CommittedShapes) = %d, want %d", len(loaded.CommittedShapes), len(cp.CommittedShapes))
	}
	if len(loaded.CurrentBitmap) != len(cp.CurrentBitmap) {
		t.Errorf("len(CurrentBitmap) = %d, want %d", len(loaded.CurrentBitmap), len(cp.CurrentBitmap))
	}
}

func TestLoadCheckpointNotFound(t *testing.T) {
	st, _ := setupTestStore(t)
	_, err := st.LoadCheckpoint("does-not-exist")
	if err == nil {
		t.Fatal("expected error for missing checkpoint")
	}
	var nf *NotFoundError
	if !asNotFound(err, &nf) {
		t.Errorf("expected *NotFoundError, got %T: %v", err, err)
	}
}

func TestListCheckpoints(t *testing.T) {
	st, _ := setupTestStore(t)

	if err := st.SaveCheckpoint("job-a", testCheckpoint("job-a")); err != nil {
		t.Fatalf("SaveCheckpoint(job-a): %v", err)
	}
	if err := st.SaveCheckpoint("job-b", testCheckpoint("job-b")); err != nil {
		t.Fatalf("SaveCheckpoint(job-b): %v", err)
	}

	infos, err := st.ListCheckpoints()
	if err != nil {
		t.Fatalf("ListCheckpoints: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len(infos) = %d, want 2", len(infos))
	}
}

func TestListCheckpointsEmpty(t *testing.T) {
	st, _ := setupTestStore(t)
	infos, err := st.ListCheckpoints()
	if err != nil {
		t.Fatalf("ListCheckpoints: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("len(infos) = %d, want 0", len(infos))
	}
}

func TestDeleteCheckpointRemovesTrace(t *testing.T) {
	st, tempDir := setupTestStore(t)
	jobID := "job-with-trace"

	if err := st.SaveCheckpoint(jobID, testCheckpoint(jobID)); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	tw, err := NewTraceWriter(tempDir, jobID, false)
	if err != nil {
		t.Fatalf("NewTraceWriter: %v", err)
	}
	if err := tw.Write(TraceEntry{Step: 1, Score: 0.9, Timestamp: time.Now()}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tracePath := filepath.Join(tempDir, "jobs", jobID, "trace.jsonl")
	if _, err := os.Stat(tracePath); err != nil {
		t.Fatalf("trace file missing before delete: %v", err)
	}

	if err := st.DeleteCheckpoint(jobID); err != nil {
		t.Fatalf("DeleteCheckpoint: %v", err)
	}
	if _, err := os.Stat(tracePath); !os.IsNotExist(err) {
		t.Error("trace.jsonl should be removed alongside its checkpoint")
	}
	if _, err := st.LoadCheckpoint(jobID); err == nil {
		t.Error("checkpoint should be gone after delete")
	}
}

func TestDeleteCheckpointNotFound(t *testing.T) {
	st, _ := setupTestStore(t)
	if err := st.DeleteCheckpoint("does-not-exist"); err == nil {
		t.Fatal("expected error deleting a checkpoint that was never saved")
	}
}

func TestBaseDir(t *testing.T) {
	st, tempDir := setupTestStore(t)
	if st.BaseDir() != tempDir {
		t.Errorf("BaseDir() = %q, want %q", st.BaseDir(), tempDir)
	}
}

func asNotFound(err error, target **NotFoundError) bool {
	nf, ok := err.(*NotFoundError)
	if ok {
		*target = nf
	}
	return ok
}
