// Package model drives the optimization loop: it owns the target and
// current canvases, the running score, and the seed offset shared
// across hill-climb workers, and exposes Step/DrawShape as the sole
// mutators of that state.
package model

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/primify/internal/core"
	"github.com/cwbudde/primify/internal/hillclimb"
	"github.com/cwbudde/primify/internal/raster"
	"github.com/cwbudde/primify/internal/shape"
)

// defaultMaxThreads is substituted when the caller requests maxThreads=0
// and runtime.NumCPU reports 0 (never observed in practice, but the
// contract requires a fallback).
const defaultMaxThreads = 4

// ShapeResult is one committed step of the approximation: the shape that
// was drawn, the color it was drawn with, and the resulting full score.
type ShapeResult struct {
	Shape shape.Shape
	Color raster.RGBA
	Score float64
}

// Model holds the target image, the in-progress canvas, and everything
// needed to reproduce a deterministic shape sequence from a fixed seed.
type Model struct {
	target  *raster.Bitmap
	current *raster.Bitmap

	lastScore  float64
	baseSeed   uint32
	seedOffset uint32 // advanced only via atomic fetch-add, from Step

	mutator *shape.Mutator
}

// New constructs a Model whose initial canvas is a solid fill of
// target's average color.
func New(target *raster.Bitmap) *Model {
	return newWithBackground(target, target.AverageColor())
}

// NewWithBackground constructs a Model whose initial canvas is a solid
// fill of background.
func NewWithBackground(target *raster.Bitmap, background raster.RGBA) *Model {
	return newWithBackground(target, background)
}

// NewWithInitial constructs a Model whose initial canvas is initial,
// which must share target's dimensions.
func NewWithInitial(target, initial *raster.Bitmap) *Model {
	if target.Width != initial.Width || target.Height != initial.Height {
		panic(fmt.Sprintf("model: initial bitmap %dx%d does not match target %dx%d",
			initial.Width, initial.Height, target.Width, target.Height))
	}
	m := &Model{
		target:  target,
		current: initial.Clone(),
		mutator: shape.NewMutator(),
	}
	m.lastScore = core.DiffFull(m.target, m.current)
	return m
}

func newWithBackground(target *raster.Bitmap, background raster.RGBA) *Model {
	m := &Model{
		target:  target,
		current: raster.NewBitmap(target.Width, target.Height, background),
		mutator: shape.NewMutator(),
	}
	m.lastScore = core.DiffFull(m.target, m.current)
	return m
}

// Reset refills current with background and recomputes lastScore.
func (m *Model) Reset(background raster.RGBA) {
	m.current.Fill(background)
	m.lastScore = core.DiffFull(m.target, m.current)
}

// Width returns the target's width.
func (m *Model) Width() int { return m.target.Width }

// Height returns the target's height.
func (m *Model) Height() int { return m.target.Height }

// Score returns the current full-frame RMS score.
func (m *Model) Score() float64 { return m.lastScore }

// Current returns the in-progress canvas. Callers must not mutate it.
func (m *Model) Current() *raster.Bitmap { return m.current }

// SetSeed sets the base RNG seed used to derive each worker's seed in
// Step.
func (m *Model) SetSeed(seed uint32) { m.baseSeed = seed }

// SeedOffset returns the next seed offset Step will hand out, for
// checkpointing.
func (m *Model) SeedOffset() uint32 { return atomic.LoadUint32(&m.seedOffset) }

// SetSeedOffset restores a seed offset previously read via SeedOffset,
// for resuming a checkpointed run.
func (m *Model) SetSeedOffset(offset uint32) { atomic.StoreUint32(&m.seedOffset, offset) }

// Step runs maxThreads concurrent hill-climb workers, each proposing an
// independently seeded best shape, then commits the globally best one.
// An empty kinds set or shapeCount of 0 is a degenerate configuration
// and yields an empty result with no commit.
func (m *Model) Step(kinds []shape.Kind, alpha uint8, shapeCount, maxMutations, maxThreads int) []ShapeResult {
	if len(kinds) == 0 || shapeCount == 0 {
		return nil
	}

	if maxThreads == 0 {
		maxThreads = runtime.NumCPU()
		if maxThreads == 0 {
			maxThreads = defaultMaxThreads
		}
	}

	states := make([]hillclimb.State, maxThreads)
	var wg sync.WaitGroup
	wg.Add(maxThreads)

	for i := 0; i < maxThreads; i++ {
		offset := atomic.AddUint32(&m.seedOffset, 1) - 1
		seed := m.baseSeed + offset

		go func(workerIdx int, seed uint32) {
			defer wg.Done()
			rng := core.NewRNG(seed)
			buffer := m.current.Clone()
			states[workerIdx] = hillclimb.BestHillClimbState(
				m.mutator, rng, kinds, alpha, shapeCount, maxMutations,
				m.target, m.current, buffer, m.lastScore,
			)
		}(i, seed)
	}
	wg.Wait()

	best := states[0]
	for i := 1; i < len(states); i++ {
		if states[i].Score < best.Score {
			best = states[i]
		}
	}

	result := m.DrawShape(best.Shape, alpha)
	slog.Debug("committed shape", "kind", best.Shape.Kind(), "score", result.Score)
	return []ShapeResult{result}
}

// DrawShape commits shape with the model-computed optimal color at
// alpha, updates current and lastScore, and returns the committed
// result.
func (m *Model) DrawShape(s shape.Shape, alpha uint8) ShapeResult {
	lines := s.Rasterize()
	color := core.ComputeColor(m.target, m.current, lines, alpha)
	return m.commit(s, color, lines)
}

// DrawShapeColor commits shape with a caller-specified color, skipping
// the optimal-color solve.
func (m *Model) DrawShapeColor(s shape.Shape, color raster.RGBA) ShapeResult {
	lines := s.Rasterize()
	return m.commit(s, color, lines)
}

func (m *Model) commit(s shape.Shape, color raster.RGBA, lines []raster.Scanline) ShapeResult {
	snapshot := snapshotRows(m.current, lines)
	raster.DrawLines(m.current, color, lines)
	m.lastScore = core.DiffPartial(m.target, snapshot, m.current, m.lastScore, lines)
	return ShapeResult{Shape: s, Color: color, Score: m.lastScore}
}

// snapshotRows returns a bitmap identical to src except that only the
// pixels covered by lines are guaranteed accurate; diff_partial only
// ever reads pixels within lines, so the rest is left zeroed.
func snapshotRows(src *raster.Bitmap, lines []raster.Scanline) *raster.Bitmap {
	snap := raster.NewBitmap(src.Width, src.Height, raster.RGBA{})
	for _, ln := range lines {
		rowStart := 4 * (ln.Y*src.Width + ln.X1)
		width := 4 * (ln.X2 - ln.X1)
		copy(snap.Pix[rowStart:rowStart+width], src.Pix[rowStart:rowStart+width])
	}
	return snap
}
