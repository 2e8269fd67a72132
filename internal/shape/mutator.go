package shape

import (
	"math"

	"github.com/cwbudde/primify/internal/core"
)

// axisDelta and angleDelta bound the per-mutation perturbation applied
// to a coordinate or an angle, per spec.
const (
	axisDelta  = 16.0
	angleDelta = 0.1 * 2 * math.Pi
)

// SetupFunc initializes a freshly constructed shape's parameters
// uniformly at random within the canvas bounds.
type SetupFunc func(rng *core.RNG, width, height int) Shape

// MutateFunc perturbs one sub-parameter of s in place.
type MutateFunc func(rng *core.RNG, s Shape)

// Mutator is a pure mapping from shape kind to {setup, mutate}
// callbacks. It carries no mutable state beyond the mapping itself, so
// it may be shared freely across hill-climb workers; callers may
// Register a replacement for any kind.
type Mutator struct {
	setup  map[Kind]SetupFunc
	mutate map[Kind]MutateFunc
}

// NewMutator returns a Mutator with the default §4.4 behavior installed
// for every kind in shape.AllKinds.
func NewMutator() *Mutator {
	m := &Mutator{
		setup:  make(map[Kind]SetupFunc, len(AllKinds)),
		mutate: make(map[Kind]MutateFunc, len(AllKinds)),
	}
	for _, k := range AllKinds {
		m.setup[k] = defaultSetup[k]
		m.mutate[k] = defaultMutate[k]
	}
	return m
}

// Register overrides the setup/mutate callbacks for kind.
func (m *Mutator) Register(kind Kind, setup SetupFunc, mutate MutateFunc) {
	m.setup[kind] = setup
	m.mutate[kind] = mutate
}

// Setup constructs and randomly initializes a new shape of kind.
func (m *Mutator) Setup(kind Kind, rng *core.RNG, width, height int) Shape {
	return m.setup[kind](rng, width, height)
}

// Mutate perturbs s in place using the callback registered for its kind.
func (m *Mutator) Mutate(rng *core.RNG, s Shape) {
	m.mutate[s.Kind()](rng, s)
}

var defaultSetup = map[Kind]SetupFunc{
	KindRectangle:        setupRectangle,
	KindRotatedRectangle: setupRotatedRectangle,
	KindTriangle:         setupTriangle,
	KindEllipse:          setupEllipse,
	KindRotatedEllipse:   setupRotatedEllipse,
	KindCircle:           setupCircle,
	KindLine:             setupLine,
	KindQuadraticBezier:  setupQuadraticBezier,
	KindPolyline:         setupPolyline,
}

var defaultMutate = map[Kind]MutateFunc{
	KindRectangle:        mutateRectangle,
	KindRotatedRectangle: mutateRotatedRectangle,
	KindTriangle:         mutateTriangle,
	KindEllipse:          mutateEllipse,
	KindRotatedEllipse:   mutateRotatedEllipse,
	KindCircle:           mutateCircle,
	KindLine:             mutateLine,
	KindQuadraticBezier:  mutateQuadraticBezier,
	KindPolyline:         mutatePolyline,
}

func setupRectangle(rng *core.RNG, w, h int) Shape {
	r := &Rectangle{
		X1: rng.IntRange(0, w-1), Y1: rng.IntRange(0, h-1),
		X2: rng.IntRange(0, w-1), Y2: rng.IntRange(0, h-1),
		Width: w, Height: h,
	}
	r.normalize()
	return r
}

func mutateRectangle(rng *core.RNG, s Shape) {
	r := s.(*Rectangle)
	switch rng.Intn(4) {
	case 0:
		r.X1 += int(mutateDelta(rng, axisDelta))
	case 1:
		r.Y1 += int(mutateDelta(rng, axisDelta))
	case 2:
		r.X2 += int(mutateDelta(rng, axisDelta))
	case 3:
		r.Y2 += int(mutateDelta(rng, axisDelta))
	}
	r.normalize()
}

func setupRotatedRectangle(rng *core.RNG, w, h int) Shape {
	r := &RotatedRectangle{
		X1: rng.IntRange(0, w-1), Y1: rng.IntRange(0, h-1),
		X2: rng.IntRange(0, w-1), Y2: rng.IntRange(0, h-1),
		Angle: rng.FloatRange(0, 2*math.Pi),
		Width: w, Height: h,
	}
	r.normalize()
	return r
}

func mutateRotatedRectangle(rng *core.RNG, s Shape) {
	r := s.(*RotatedRectangle)
	switch rng.Intn(5) {
	case 0:
		r.X1 += int(mutateDelta(rng, axisDelta))
	case 1:
		r.Y1 += int(mutateDelta(rng, axisDelta))
	case 2:
		r.X2 += int(mutateDelta(rng, axisDelta))
	case 3:
		r.Y2 += int(mutateDelta(rng, axisDelta))
	case 4:
		r.Angle += mutateDelta(rng, angleDelta)
	}
	r.normalize()
}

func setupTriangle(rng *core.RNG, w, h int) Shape {
	return &Triangle{
		X1: rng.IntRange(0, w-1), Y1: rng.IntRange(0, h-1),
		X2: rng.IntRange(0, w-1), Y2: rng.IntRange(0, h-1),
		X3: rng.IntRange(0, w-1), Y3: rng.IntRange(0, h-1),
		Width: w, Height: h,
	}
}

func mutateTriangle(rng *core.RNG, s Shape) {
	t := s.(*Triangle)
	switch rng.Intn(6) {
	case 0:
		t.X1 += int(mutateDelta(rng, axisDelta))
	case 1:
		t.Y1 += int(mutateDelta(rng, axisDelta))
	case 2:
		t.X2 += int(mutateDelta(rng, axisDelta))
	case 3:
		t.Y2 += int(mutateDelta(rng, axisDelta))
	case 4:
		t.X3 += int(mutateDelta(rng, axisDelta))
	case 5:
		t.Y3 += int(mutateDelta(rng, axisDelta))
	}
	t.clampVertices()
}

func setupEllipse(rng *core.RNG, w, h int) Shape {
	e := &Ellipse{
		X: rng.IntRange(0, w-1), Y: rng.IntRange(0, h-1),
		RX: rng.IntRange(1, max(1, w/4)), RY: rng.IntRange(1, max(1, h/4)),
		Width: w, Height: h,
	}
	e.clamp()
	return e
}

func mutateEllipse(rng *core.RNG, s Shape) {
	e := s.(*Ellipse)
	switch rng.Intn(4) {
	case 0:
		e.X += int(mutateDelta(rng, axisDelta))
	case 1:
		e.Y += int(mutateDelta(rng, axisDelta))
	case 2:
		e.RX += int(mutateDelta(rng, axisDelta))
	case 3:
		e.RY += int(mutateDelta(rng, axisDelta))
	}
	e.clamp()
}

func setupRotatedEllipse(rng *core.RNG, w, h int) Shape {
	e := &RotatedEllipse{
		X: rng.IntRange(0, w-1), Y: rng.IntRange(0, h-1),
		RX: rng.IntRange(1, max(1, w/4)), RY: rng.IntRange(1, max(1, h/4)),
		Angle: rng.FloatRange(0, 2*math.Pi),
		Width: w, Height: h,
	}
	e.clamp()
	return e
}

func mutateRotatedEllipse(rng *core.RNG, s Shape) {
	e := s.(*RotatedEllipse)
	switch rng.Intn(5) {
	case 0:
		e.X += int(mutateDelta(rng, axisDelta))
	case 1:
		e.Y += int(mutateDelta(rng, axisDelta))
	case 2:
		e.RX += int(mutateDelta(rng, axisDelta))
	case 3:
		e.RY += int(mutateDelta(rng, axisDelta))
	case 4:
		e.Angle += mutateDelta(rng, angleDelta)
	}
	e.clamp()
}

func setupCircle(rng *core.RNG, w, h int) Shape {
	c := &Circle{
		X: rng.IntRange(0, w-1), Y: rng.IntRange(0, h-1),
		R: rng.IntRange(1, max(1, min(w, h)/4)),
		Width: w, Height: h,
	}
	c.clamp()
	return c
}

func mutateCircle(rng *core.RNG, s Shape) {
	c := s.(*Circle)
	switch rng.Intn(3) {
	case 0:
		c.X += int(mutateDelta(rng, axisDelta))
	case 1:
		c.Y += int(mutateDelta(rng, axisDelta))
	case 2:
		c.R += int(mutateDelta(rng, axisDelta))
	}
	c.clamp()
}

func setupLine(rng *core.RNG, w, h int) Shape {
	return &Line{
		X1: rng.IntRange(0, w-1), Y1: rng.IntRange(0, h-1),
		X2: rng.IntRange(0, w-1), Y2: rng.IntRange(0, h-1),
		Width: w, Height: h,
	}
}

func mutateLine(rng *core.RNG, s Shape) {
	l := s.(*Line)
	switch rng.Intn(4) {
	case 0:
		l.X1 += int(mutateDelta(rng, axisDelta))
	case 1:
		l.Y1 += int(mutateDelta(rng, axisDelta))
	case 2:
		l.X2 += int(mutateDelta(rng, axisDelta))
	case 3:
		l.Y2 += int(mutateDelta(rng, axisDelta))
	}
	l.clampEndpoints()
}

func setupQuadraticBezier(rng *core.RNG, w, h int) Shape {
	return &QuadraticBezier{
		CX: rng.IntRange(0, w-1), CY: rng.IntRange(0, h-1),
		X1: rng.IntRange(0, w-1), Y1: rng.IntRange(0, h-1),
		X2: rng.IntRange(0, w-1), Y2: rng.IntRange(0, h-1),
		Width: w, Height: h,
	}
}

func mutateQuadraticBezier(rng *core.RNG, s Shape) {
	q := s.(*QuadraticBezier)
	switch rng.Intn(6) {
	case 0:
		q.CX += int(mutateDelta(rng, axisDelta))
	case 1:
		q.CY += int(mutateDelta(rng, axisDelta))
	case 2:
		q.X1 += int(mutateDelta(rng, axisDelta))
	case 3:
		q.Y1 += int(mutateDelta(rng, axisDelta))
	case 4:
		q.X2 += int(mutateDelta(rng, axisDelta))
	case 5:
		q.Y2 += int(mutateDelta(rng, axisDelta))
	}
	q.clampPoints()
}

func setupPolyline(rng *core.RNG, w, h int) Shape {
	n := rng.IntRange(2, maxPolylinePoints)
	pts := make([]int, 2*n)
	for i := 0; i < n; i++ {
		pts[2*i] = rng.IntRange(0, w-1)
		pts[2*i+1] = rng.IntRange(0, h-1)
	}
	return &Polyline{Points: pts, Width: w, Height: h}
}

func mutatePolyline(rng *core.RNG, s Shape) {
	p := s.(*Polyline)
	n := p.pointCount()
	i := rng.Intn(n)
	if rng.Intn(2) == 0 {
		p.Points[2*i] += int(mutateDelta(rng, axisDelta))
	} else {
		p.Points[2*i+1] += int(mutateDelta(rng, axisDelta))
	}
	p.clampPoints()
}
