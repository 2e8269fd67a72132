// Package hillclimb implements random-restart, first-improvement hill
// climbing over the shape search space: bestHillClimbState evaluates
// shapeCount independent random shapes, locally refines each via
// mutation, and returns the best.
package hillclimb

import (
	"github.com/cwbudde/primify/internal/core"
	"github.com/cwbudde/primify/internal/raster"
	"github.com/cwbudde/primify/internal/shape"
)

// State is a candidate (shape, score, alpha) under evaluation. States
// are ordered by Score (lower is better); ties break by insertion
// order, never by shape content.
type State struct {
	Shape shape.Shape
	Score float64
	Alpha uint8
}

// score rasterizes s and computes the RMS difference it would produce
// if committed at alpha, without mutating current.
func score(mutator *shape.Mutator, target, current, buffer *raster.Bitmap, lastScore float64, alpha uint8, s shape.Shape) (float64, []raster.Scanline) {
	lines := s.Rasterize()
	color := core.ComputeColor(target, current, lines, alpha)

	buffer.CopyFrom(current)
	raster.DrawLines(buffer, color, lines)
	sc := core.DiffPartial(target, current, buffer, lastScore, lines)
	return sc, lines
}

// HillClimb runs first-improvement mutation hill climbing starting from
// start, for up to maxMutations consecutive non-improving iterations.
func HillClimb(mutator *shape.Mutator, rng *core.RNG, target, current, buffer *raster.Bitmap, lastScore float64, alpha uint8, start State, maxMutations int) State {
	s := start
	failed := 0
	for failed < maxMutations {
		candidate := s.Shape.Clone()
		mutator.Mutate(rng, candidate)
		sc, _ := score(mutator, target, current, buffer, lastScore, alpha, candidate)
		if sc < s.Score {
			s = State{Shape: candidate, Score: sc, Alpha: alpha}
			failed = 0
		} else {
			failed++
		}
	}
	return s
}

// BestHillClimbState generates shapeCount independent random shapes
// drawn from kinds, hill-climbs each, and returns the overall best.
func BestHillClimbState(mutator *shape.Mutator, rng *core.RNG, kinds []shape.Kind, alpha uint8, shapeCount, maxMutations int, target, current, buffer *raster.Bitmap, lastScore float64) State {
	var best State
	haveBest := false

	for i := 0; i < shapeCount; i++ {
		kind := kinds[rng.Intn(len(kinds))]
		s := mutator.Setup(kind, rng, target.Width, target.Height)
		sc, _ := score(mutator, target, current, buffer, lastScore, alpha, s)

		candidate := HillClimb(mutator, rng, target, current, buffer, lastScore, alpha, State{Shape: s, Score: sc, Alpha: alpha}, maxMutations)

		if !haveBest || candidate.Score < best.Score {
			best = candidate
			haveBest = true
		}
	}
	return best
}
