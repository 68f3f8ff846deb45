package sponge

import (
	"fmt"
	"math"
	"math/big"
)

// Approximate returns the closest rational to f whose denominator does not
// exceed maxDen, found with continued fractions. f is taken exactly as the
// binary fraction it stores. When two candidates are equally close the
// last convergent wins. f must lie in [0,1].
func Approximate(f float64, maxDen int64) (Coord, error) {
	if math.IsNaN(f) || f < 0 || f > 1 {
		return Coord{}, fmt.Errorf("approximate %v: %w", f, ErrCoordinate)
	}
	if maxDen < 1 {
		return Coord{}, fmt.Errorf("approximate %v with bound %d: %w", f, maxDen, ErrInvalidDenominator)
	}
	maxDen = min(maxDen, MaxDenominator)

	x := new(big.Rat).SetFloat64(f)
	bound := big.NewInt(maxDen)
	if x.Denom().Cmp(bound) <= 0 {
		return FromRat(x)
	}

	n := new(big.Int).Set(x.Num())
	d := new(big.Int).Set(x.Denom())
	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	a, q2, t := new(big.Int), new(big.Int), new(big.Int)
	for {
		a.Quo(n, d)
		q2.Mul(a, q1).Add(q2, q0)
		if q2.Cmp(bound) > 0 {
			break
		}
		// next convergent p1/q1
		t.Mul(a, p1).Add(t, p0)
		p0, p1 = p1, new(big.Int).Set(t)
		q0, q1 = q1, new(big.Int).Set(q2)
		// remainder of the expansion
		t.Mul(a, d)
		n, d = d, new(big.Int).Sub(n, t)
	}

	k := new(big.Int).Sub(bound, q0)
	k.Quo(k, q1)
	semi := new(big.Rat).SetFrac(
		new(big.Int).Add(p0, new(big.Int).Mul(k, p1)),
		new(big.Int).Add(q0, new(big.Int).Mul(k, q1)),
	)
	conv := new(big.Rat).SetFrac(p1, q1)

	ds := new(big.Rat).Sub(semi, x)
	dc := new(big.Rat).Sub(conv, x)
	if dc.Abs(dc).Cmp(ds.Abs(ds)) <= 0 {
		return FromRat(conv)
	}
	return FromRat(semi)
}
