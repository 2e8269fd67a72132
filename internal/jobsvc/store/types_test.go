package store

import (
	"testing"
	"time"
)

func validCheckpoint() *Checkpoint {
	return &Checkpoint{
		JobID: "job-1",
		Config: JobConfig{
			RefPath:    "testdata/target.png",
			ShapeCount: 10,
		},
		CommittedShapes: [][]int{
			{0, 200, 60, 20, 128, 0, 0, 4, 4},
		},
		CurrentBitmap: make([]byte, 4*4*4),
		Width:         4,
		Height:        4,
		LastScore:     0.05,
		Timestamp:     time.Now(),
	}
}

func TestCheckpointValidateOK(t *testing.T) {
	if err := validCheckpoint().Validate(); err != nil {
		t.Fatalf("Validate: unexpected error: %v", err)
	}
}

func TestCheckpointValidateEmptyJobID(t *testing.T) {
	cp := validCheckpoint()
	cp.JobID = ""
	if err := cp.Validate(); err == nil {
		t.Fatal("expected error for empty JobID")
	}
}

func TestCheckpointValidateBadDimensions(t *testing.T) {
	cp := validCheckpoint()
	cp.Width = 0
	if err := cp.Validate(); err == nil {
		t.Fatal("expected error for non-positive Width")
	}
}

func TestCheckpointValidateTruncatedBitmap(t *testing.T) {
	cp := validCheckpoint()
	cp.CurrentBitmap = cp.CurrentBitmap[:len(cp.CurrentBitmap)-1]
	err := cp.Validate()
	if err == nil {
		t.Fatal("expected error for truncated CurrentBitmap")
	}
	var ve *ValidationError
	if !assertValidationError(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if ve.Field != "CurrentBitmap" {
		t.Errorf("Field = %q, want CurrentBitmap", ve.Field)
	}
}

func TestCheckpointValidateNegativeScore(t *testing.T) {
	cp := validCheckpoint()
	cp.LastScore = -1
	if err := cp.Validate(); err == nil {
		t.Fatal("expected error for negative LastScore")
	}
}

func TestCheckpointValidateZeroTimestamp(t *testing.T) {
	cp := validCheckpoint()
	cp.Timestamp = time.Time{}
	if err := cp.Validate(); err == nil {
		t.Fatal("expected error for zero Timestamp")
	}
}

func TestCheckpointValidateEmptyRefPath(t *testing.T) {
	cp := validCheckpoint()
	cp.Config.RefPath = ""
	if err := cp.Validate(); err == nil {
		t.Fatal("expected error for empty Config.RefPath")
	}
}

func TestCheckpointValidateBadShapeCount(t *testing.T) {
	cp := validCheckpoint()
	cp.Config.ShapeCount = 0
	if err := cp.Validate(); err == nil {
		t.Fatal("expected error for non-positive Config.ShapeCount")
	}
}

func TestCheckpointValidateShortShapeTuple(t *testing.T) {
	cp := validCheckpoint()
	cp.CommittedShapes = [][]int{{0, 1, 2}}
	if err := cp.Validate(); err == nil {
		t.Fatal("expected error for a shape tuple shorter than kind+rgba")
	}
}

func TestCheckpointIsCompatible(t *testing.T) {
	cp := validCheckpoint()
	if err := cp.IsCompatible(4, 4); err != nil {
		t.Errorf("IsCompatible(4, 4): unexpected error: %v", err)
	}
}

func TestCheckpointIsCompatibleDimensionMismatch(t *testing.T) {
	cp := validCheckpoint()
	err := cp.IsCompatible(8, 8)
	if err == nil {
		t.Fatal("expected error for mismatched dimensions")
	}
	var ce *CompatibilityError
	if !assertCompatibilityError(err, &ce) {
		t.Fatalf("expected *CompatibilityError, got %T: %v", err, err)
	}
	if ce.Expected != "4x4" || ce.Actual != "8x8" {
		t.Errorf("Expected/Actual = %q/%q, want 4x4/8x8", ce.Expected, ce.Actual)
	}
}

func assertValidationError(err error, target **ValidationError) bool {
	ve, ok := err.(*ValidationError)
	if ok {
		*target = ve
	}
	return ok
}

func assertCompatibilityError(err error, target **CompatibilityError) bool {
	ce, ok := err.(*CompatibilityError)
	if ok {
		*target = ce
	}
	return ok
}
