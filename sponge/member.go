package sponge

import "fmt"

// IsMember reports whether the point (x,y,z,w) survives the first level
// subdivision steps. Each step scales every coordinate by 3, takes the integer
// part as the ternary digit and rejects the point as soon as three or four
// digits equal 1; otherwise only the fractional remainders are kept.
//
// A coordinate equal to 1 scales to 3 and yields digit 3, which counts as a
// non-1 digit; its remainder is then 0.
func IsMember(x, y, z, w Coord, level int) (bool, error) {
	if level < 0 {
		return false, fmt.Errorf("member level %d: %w", level, ErrInvalidLevel)
	}
	p := [4]Coord{x, y, z, w}
	for _, c := range p {
		if err := c.Validate(); err != nil {
			return false, err
		}
	}
	return member(p, level), nil
}

// member works on its own copy of p; callers must have validated it.
func member(p [4]Coord, level int) bool {
	for ; level > 0; level-- {
		ones := 0
		for a := range p {
			p[a].Num *= 3
			d := p[a].Num / p[a].Den
			if d == 1 {
				ones++
			}
			p[a].Num -= d * p[a].Den
		}
		if ones >= removeOnes4D {
			return false
		}
	}
	return true
}
