package sponge

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// MaxDenominator keeps 3*Num exact in int64 for every valid coordinate.
const MaxDenominator = math.MaxInt64 / 3

// Coord is an exact rational Num/Den. It is not kept in lowest terms;
// ternary digit extraction only needs floor and subtraction.
type Coord struct {
	Num, Den int64
}

// Frac returns num/den without validation.
func Frac(num, den int64) Coord { return Coord{Num: num, Den: den} }

// Validate checks that c lies in [0,1] and can be scaled by 3 exactly.
func (c Coord) Validate() error {
	if c.Den <= 0 || c.Den > MaxDenominator {
		return fmt.Errorf("%d/%d: denominator out of range: %w", c.Num, c.Den, ErrCoordinate)
	}
	if c.Num < 0 || c.Num > c.Den {
		return fmt.Errorf("%d/%d: %w", c.Num, c.Den, ErrCoordinate)
	}
	return nil
}

// Float64 returns the nearest float64 to c.
func (c Coord) Float64() float64 {
	f, _ := c.Rat().Float64()
	return f
}

// Rat returns c as an arbitrary precision rational.
func (c Coord) Rat() *big.Rat { return big.NewRat(c.Num, c.Den) }

// Cmp compares the values of c and o, ignoring representation.
func (c Coord) Cmp(o Coord) int { return c.Rat().Cmp(o.Rat()) }

func (c Coord) String() string { return fmt.Sprintf("%d/%d", c.Num, c.Den) }

// Ternary returns the first n base-3 digits of c after the radix point,
// following the same floor-and-subtract rule as membership testing. The
// value 1 yields a leading digit 3. c must pass Validate.
func (c Coord) Ternary(n int) ([]int, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	digits := make([]int, 0, max(n, 0))
	for ; n > 0; n-- {
		c.Num *= 3
		d := c.Num / c.Den
		c.Num -= d * c.Den
		digits = append(digits, int(d))
	}
	return digits, nil
}

// ParseCoord accepts "p/q", decimal ("0.25") or integer ("1") notation and
// returns the exact value, which must lie in [0,1].
func ParseCoord(s string) (Coord, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return Coord{}, fmt.Errorf("parse %q: %w", s, ErrCoordinate)
	}
	return FromRat(r)
}

// FromRat converts r to a Coord, rejecting values outside [0,1] and
// denominators too large for exact scaling.
func FromRat(r *big.Rat) (Coord, error) {
	if !r.Num().IsInt64() || !r.Denom().IsInt64() {
		return Coord{}, fmt.Errorf("%s: %w", r.RatString(), ErrCoordinate)
	}
	c := Coord{Num: r.Num().Int64(), Den: r.Denom().Int64()}
	if err := c.Validate(); err != nil {
		return Coord{}, err
	}
	return c, nil
}
