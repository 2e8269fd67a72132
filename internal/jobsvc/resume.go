package jobsvc

import (
	"fmt"

	jobstore "github.com/cwbudde/primify/internal/jobsvc/store"
	"github.com/cwbudde/primify/internal/model"
	"github.com/cwbudde/primify/internal/raster"
	"github.com/cwbudde/primify/internal/shape"
)

// Resume reconstructs a Job from a checkpoint against target, exactly
// continuing the committed shape sequence: the restored Model's current
// canvas and seed offset are the checkpoint's values directly, and its
// lastScore is recomputed from that canvas with DiffFull, so the next
// Step call draws the same worker seeds a never-interrupted run would
// have used.
func Resume(mgr *Manager, target *raster.Bitmap, cp *jobstore.Checkpoint) (*Job, error) {
	if err := cp.Validate(); err != nil {
		return nil, fmt.Errorf("jobsvc: invalid checkpoint: %w", err)
	}
	if err := cp.IsCompatible(target.Width, target.Height); err != nil {
		return nil, fmt.Errorf("jobsvc: resume target incompatible with checkpoint: %w", err)
	}

	canvas := raster.NewBitmapFromBuffer(cp.Width, cp.Height, append([]byte(nil), cp.CurrentBitmap...))
	m := model.NewWithInitial(target, canvas)
	m.SetSeed(cp.Config.Seed)
	m.SetSeedOffset(cp.SeedOffset)

	kinds := make([]shape.Kind, len(cp.Config.Kinds))
	for i, k := range cp.Config.Kinds {
		kinds[i] = shape.Kind(k)
	}

	config := JobConfig{
		RefPath:      cp.Config.RefPath,
		Background:   cp.Config.Background,
		Kinds:        kinds,
		Alpha:        uint8(cp.Config.Alpha),
		ShapeCount:   cp.Config.ShapeCount,
		MaxMutations: cp.Config.MaxMutations,
		MaxThreads:   cp.Config.MaxThreads,
		Seed:         cp.Config.Seed,
		TargetSteps:  cp.Config.TargetSteps,
		Convergence:  DefaultConvergenceConfig(),
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	job := &Job{
		ID:     cp.JobID,
		State:  StatePending,
		Config: config,
		Model:  m,
		Shapes: tuplesToResults(cp.CommittedShapes, m),
	}
	mgr.jobs[job.ID] = job
	return job, nil
}

// tuplesToResults reconstructs committed ShapeResults from their
// persisted tuple form. Only Kind/Params/Color carry forward; Score is
// not separately recorded per committed shape, so every reconstructed
// entry reports the restored model's final score.
func tuplesToResults(tuples [][]int, m *model.Model) []model.ShapeResult {
	results := make([]model.ShapeResult, 0, len(tuples))
	for _, t := range tuples {
		if len(t) < 5 {
			continue
		}
		kind := shape.Kind(t[0])
		color := raster.RGBA{R: uint8(t[1]), G: uint8(t[2]), B: uint8(t[3]), A: uint8(t[4])}
		s := fromParams(kind, t[5:], m.Width(), m.Height())
		if s == nil {
			continue
		}
		results = append(results, model.ShapeResult{Shape: s, Color: color, Score: m.Score()})
	}
	return results
}

// fromParams reconstructs a Shape from its kind tag and integer
// parameter view, per the ordering documented in spec.md §6.
func fromParams(kind shape.Kind, p []int, width, height int) shape.Shape {
	switch kind {
	case shape.KindRectangle:
		if len(p) < 4 {
			return nil
		}
		return &shape.Rectangle{X1: p[0], Y1: p[1], X2: p[2], Y2: p[3], Width: width, Height: height}
	case shape.KindRotatedRectangle:
		if len(p) < 5 {
			return nil
		}
		return &shape.RotatedRectangle{X1: p[0], Y1: p[1], X2: p[2], Y2: p[3],
			Angle: float64(p[4]) * (3.141592653589793 / 180), Width: width, Height: height}
	case shape.KindTriangle:
		if len(p) < 6 {
			return nil
		}
		return &shape.Triangle{X1: p[0], Y1: p[1], X2: p[2], Y2: p[3], X3: p[4], Y3: p[5], Width: width, Height: height}
	case shape.KindEllipse:
		if len(p) < 4 {
			return nil
		}
		return &shape.Ellipse{X: p[0], Y: p[1], RX: p[2], RY: p[3], Width: width, Height: height}
	case shape.KindRotatedEllipse:
		if len(p) < 5 {
			return nil
		}
		return &shape.RotatedEllipse{X: p[0], Y: p[1], RX: p[2], RY: p[3],
			Angle: float64(p[4]) * (3.141592653589793 / 180), Width: width, Height: height}
	case shape.KindCircle:
		if len(p) < 3 {
			return nil
		}
		return &shape.Circle{X: p[0], Y: p[1], R: p[2], Width: width, Height: height}
	case shape.KindLine:
		if len(p) < 4 {
			return nil
		}
		return &shape.Line{X1: p[0], Y1: p[1], X2: p[2], Y2: p[3], Width: width, Height: height}
	case shape.KindQuadraticBezier:
		if len(p) < 6 {
			return nil
		}
		return &shape.QuadraticBezier{CX: p[0], CY: p[1], X1: p[2], Y1: p[3], X2: p[4], Y2: p[5], Width: width, Height: height}
	case shape.KindPolyline:
		if len(p) < 4 || len(p)%2 != 0 {
			return nil
		}
		return &shape.Polyline{Points: append([]int(nil), p...), Width: width, Height: height}
	default:
		return nil
	}
}
