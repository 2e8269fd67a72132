package store

import (
	"fmt"
	"time"
)

// JobConfig holds the configuration needed to (re)construct a Model for
// a job. It is duplicated from jobsvc.JobConfig rather than imported, to
// avoid an import cycle between jobsvc and jobsvc/store.
type JobConfig struct {
	RefPath      string  `json:"refPath"`
	Background   *[4]int `json:"background,omitempty"` // nil = target average color
	Kinds        []int   `json:"kinds"`
	Alpha        int     `json:"alpha"`
	ShapeCount   int     `json:"shapeCount"`
	MaxMutations int     `json:"maxMutations"`
	MaxThreads   int     `json:"maxThreads"`
	Seed         uint32  `json:"seed"`
	TargetSteps  int     `json:"targetSteps,omitempty"` // 0 = unbounded
}

// Checkpoint is a saved, resumable snapshot of a job's Model state. Per
// the spec's Determinism contract (spec.md §4.7), a resumed job
// continues the exact same shape sequence a never-interrupted run would
// have produced, since the full current canvas, lastScore, and seed
// offset reached are all persisted rather than reconstructed.
type Checkpoint struct {
	JobID string `json:"jobId"`

	Config JobConfig `json:"config"`

	// CommittedShapes is the full shape-array tuple sequence committed
	// so far: [kindTag, r, g, b, a, ...params] per entry.
	CommittedShapes [][]int `json:"committedShapes"`

	// CurrentBitmap is the in-progress canvas, RGBA8 row-major.
	CurrentBitmap []byte `json:"currentBitmap"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`

	LastScore  float64 `json:"lastScore"`
	SeedOffset uint32  `json:"seedOffset"`

	Timestamp time.Time `json:"timestamp"`
}

// CheckpointInfo is checkpoint metadata without the (large) bitmap and
// shape-array payload, for cheap listing.
type CheckpointInfo struct {
	JobID      string    `json:"jobId"`
	LastScore  float64   `json:"lastScore"`
	StepCount  int       `json:"stepCount"`
	Timestamp  time.Time `json:"timestamp"`
	RefPath    string    `json:"refPath"`
	SeedOffset uint32    `json:"seedOffset"`
}

// ToInfo converts a full Checkpoint to its metadata-only view.
func (c *Checkpoint) ToInfo() CheckpointInfo {
	return CheckpointInfo{
		JobID:      c.JobID,
		LastScore:  c.LastScore,
		StepCount:  len(c.CommittedShapes),
		Timestamp:  c.Timestamp,
		RefPath:    c.Config.RefPath,
		SeedOffset: c.SeedOffset,
	}
}

// Validate checks that the checkpoint's own data is internally
// consistent, independent of any particular resume request. A truncated
// write or a hand-edited checkpoint file should fail here with a clear
// error rather than panic deeper in the resume path.
func (c *Checkpoint) Validate() error {
	if c.JobID == "" {
		return &ValidationError{Field: "JobID", Reason: "cannot be empty"}
	}
	if c.Width <= 0 || c.Height <= 0 {
		return &ValidationError{Field: "Width/Height", Reason: "must be positive"}
	}
	if len(c.CurrentBitmap) != 4*c.Width*c.Height {
		return &ValidationError{
			Field:  "CurrentBitmap",
			Reason: fmt.Sprintf("length %d does not match 4*%d*%d", len(c.CurrentBitmap), c.Width, c.Height),
		}
	}
	if c.LastScore < 0 {
		return &ValidationError{Field: "LastScore", Reason: "cannot be negative"}
	}
	if c.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if c.Config.RefPath == "" {
		return &ValidationError{Field: "Config.RefPath", Reason: "cannot be empty"}
	}
	if c.Config.ShapeCount <= 0 {
		return &ValidationError{Field: "Config.ShapeCount", Reason: "must be positive"}
	}
	for i, tuple := range c.CommittedShapes {
		if len(tuple) < 5 {
			return &ValidationError{
				Field:  "CommittedShapes",
				Reason: fmt.Sprintf("entry %d has %d elements, want at least 5 (kind + rgba)", i, len(tuple)),
			}
		}
	}
	return nil
}

// ValidationError reports a checkpoint with internally inconsistent data.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible reports whether this checkpoint can be resumed against a
// target image of the given dimensions. The target image itself is
// never persisted in the checkpoint (SPEC_FULL.md §4.10), so resume must
// re-check it against whatever is re-supplied at resume time.
func (c *Checkpoint) IsCompatible(width, height int) error {
	if c.Width != width || c.Height != height {
		return &CompatibilityError{
			Field:    "dimensions",
			Expected: fmt.Sprintf("%dx%d", c.Width, c.Height),
			Actual:   fmt.Sprintf("%dx%d", width, height),
		}
	}
	return nil
}

// CompatibilityError reports a checkpoint being resumed against a target
// image it was not produced against.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
