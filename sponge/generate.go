package sponge

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Method selects how cross-sections are computed. The set of methods is
// closed: Integer and Rational.
type Method interface {
	Name() string
	validate(g *Generator, level int) error
	frames(g *Generator, level, count int) ([]Frame, error)
}

// Integer slices the eagerly built lattice at integer fourth-axis indices.
type Integer struct{}

// Rational samples each slice on a Resolution^3 grid of exact points.
type Rational struct {
	Resolution int
}

func (Integer) Name() string  { return "integer" }
func (Rational) Name() string { return "rational" }

// ParseMethod resolves a configured method name. resolution is only used by
// the rational method.
func ParseMethod(name string, resolution int) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "integer":
		return Integer{}, nil
	case "rational":
		return Rational{Resolution: resolution}, nil
	default:
		return nil, fmt.Errorf("method %q: %w", name, ErrUnknownMethod)
	}
}

// Label identifies a frame. Integer frames set Index; rational frames set W
// and the exact value Exact actually sampled. Index is -1 for rational frames.
type Label struct {
	Index int
	W     float64
	Exact Coord
}

func (l Label) String() string {
	if l.Index >= 0 {
		return fmt.Sprintf("slice index = %d", l.Index)
	}
	return fmt.Sprintf("w = %.3f", l.W)
}

// Frame is one cross-section of a sequence.
type Frame struct {
	Label Label
	Slice *CrossSection
}

// Sequence is the ordered output of GenerateSlices, by increasing w.
type Sequence struct {
	Level  int
	Method Method
	Frames []Frame
}

// Labels returns the frame labels in order.
func (s *Sequence) Labels() []Label {
	out := make([]Label, len(s.Frames))
	for i, f := range s.Frames {
		out[i] = f.Label
	}
	return out
}

// Generator carries the knobs shared by slice computations. The zero value
// is usable.
type Generator struct {
	// MaxLatticeLevel bounds the integer method; 0 means DefaultMaxLatticeLevel.
	// Values above LatticeCeiling act as LatticeCeiling.
	MaxLatticeLevel int
	// Workers bounds parallel point evaluation; 0 means runtime.NumCPU().
	Workers int
	Log     logrus.FieldLogger
}

var defaultGenerator = &Generator{}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func (g *Generator) log() logrus.FieldLogger {
	if g.Log != nil {
		return g.Log
	}
	return discard
}

func (g *Generator) maxLatticeLevel() int {
	if g.MaxLatticeLevel > 0 {
		return min(g.MaxLatticeLevel, LatticeCeiling)
	}
	return DefaultMaxLatticeLevel
}

// GenerateSlices produces count cross-sections of the level sponge with the
// default generator.
func GenerateSlices(level int, m Method, count int) (*Sequence, error) {
	return defaultGenerator.Generate(level, m, count)
}

// Generate validates every input before computing anything, then produces
// count cross-sections ordered by increasing w.
func (g *Generator) Generate(level int, m Method, count int) (*Sequence, error) {
	if level < 0 {
		return nil, fmt.Errorf("generate level %d: %w", level, ErrInvalidLevel)
	}
	if count <= 0 {
		return nil, fmt.Errorf("generate %d frames: %w", count, ErrInvalidFrameCount)
	}
	if m == nil {
		return nil, fmt.Errorf("generate: %w", ErrUnknownMethod)
	}
	if err := m.validate(g, level); err != nil {
		return nil, err
	}
	frames, err := m.frames(g, level, count)
	if err != nil {
		return nil, err
	}
	return &Sequence{Level: level, Method: m, Frames: frames}, nil
}

func (Integer) validate(g *Generator, level int) error {
	if limit := g.maxLatticeLevel(); level > limit {
		return fmt.Errorf("integer method level %d (max %d): %w", level, limit, ErrLevelTooDeep)
	}
	return nil
}

func (Integer) frames(g *Generator, level, count int) ([]Frame, error) {
	lat, err := BuildWithLimit(level, g.maxLatticeLevel())
	if err != nil {
		return nil, err
	}
	g.log().WithFields(logrus.Fields{"level": level, "side": lat.Side, "occupied": lat.Count()}).Debug("lattice built")

	out := make([]Frame, 0, count)
	for _, idx := range SliceIndices(lat.Side, count) {
		cs, err := lat.Slice(idx)
		if err != nil {
			return nil, err
		}
		w := 0.0
		if lat.Side > 1 {
			w = float64(idx) / float64(lat.Side-1)
		}
		g.log().WithFields(logrus.Fields{"method": "integer", "index": idx}).Info("slice extracted")
		out = append(out, Frame{Label: Label{Index: idx, W: w, Exact: Frac(int64(idx), int64(max(lat.Side-1, 1)))}, Slice: cs})
	}
	return out, nil
}

func (r Rational) validate(_ *Generator, level int) error {
	return checkRational(r.Resolution, level)
}

func (r Rational) frames(g *Generator, level, count int) ([]Frame, error) {
	bound := int64(pow3(level))
	out := make([]Frame, 0, count)
	for _, w := range Span(0, 1, count) {
		exact, err := Approximate(w, bound)
		if err != nil {
			return nil, err
		}
		g.log().WithFields(logrus.Fields{"method": "rational", "w": w, "exact": exact.String()}).Info("generating slice")
		cs, err := g.sample(exact, r.Resolution, level)
		if err != nil {
			return nil, err
		}
		out = append(out, Frame{Label: Label{Index: -1, W: w, Exact: exact}, Slice: cs})
	}
	return out, nil
}

// Span returns count evenly spaced values over [lo, hi], endpoints included.
// A single value is lo.
func Span(lo, hi float64, count int) []float64 {
	switch {
	case count <= 0:
		return nil
	case count == 1:
		return []float64{lo}
	}
	out := floats.Span(make([]float64, count), lo, hi)
	// pin the endpoint so rounding never leaves [lo, hi]
	out[count-1] = hi
	return out
}

// SliceIndices returns count lattice indices evenly spaced over
// [0, side-1], rounded to the nearest integer. Indices repeat when count
// exceeds side.
func SliceIndices(side, count int) []int {
	pos := Span(0, float64(side-1), count)
	out := make([]int, len(pos))
	for i, p := range pos {
		out[i] = int(math.Round(p))
	}
	return out
}
