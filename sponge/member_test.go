package sponge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMember(t *testing.T, x, y, z, w Coord, level int) bool {
	t.Helper()
	ok, err := IsMember(x, y, z, w, level)
	require.NoError(t, err)
	return ok
}

func TestIsMemberLevelZeroAcceptsEverything(t *testing.T) {
	pts := []Coord{Frac(0, 1), Frac(1, 2), Frac(1, 3), Frac(1, 1)}
	for _, x := range pts {
		for _, w := range pts {
			assert.True(t, mustMember(t, x, Frac(1, 2), Frac(1, 2), w, 0))
		}
	}
}

func TestIsMemberCentreRemoved(t *testing.T) {
	c := Frac(1, 2)
	assert.False(t, mustMember(t, c, c, c, c, 1))
	// three middle digits are enough to remove the point
	assert.False(t, mustMember(t, c, c, c, Frac(0, 1), 1))
	// two are not
	assert.True(t, mustMember(t, c, c, Frac(0, 1), Frac(0, 1), 1))
}

// The value 1 scales to 3, giving digit 3 and remainder 0; it is never
// clamped to digit 2.
func TestIsMemberBoundaryOne(t *testing.T) {
	one := Frac(1, 1)
	half := Frac(1, 2)
	digits, err := one.Ternary(3)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 0, 0}, digits)

	assert.True(t, mustMember(t, one, one, one, one, 3))
	// digit 3 is not a 1, so three halves are still removed beside it
	assert.False(t, mustMember(t, one, half, half, half, 1))
	assert.True(t, mustMember(t, one, one, half, half, 2))
}

func TestIsMemberAgreesWithLattice(t *testing.T) {
	for level := 0; level <= 2; level++ {
		lat, err := Build(level)
		require.NoError(t, err)
		s := int64(lat.Side)
		for i := 0; i < lat.Side; i++ {
			for j := 0; j < lat.Side; j++ {
				for k := 0; k < lat.Side; k++ {
					for w := 0; w < lat.Side; w++ {
						want := lat.At(i, j, k, w)
						// left corner of the cell
						got := mustMember(t, Frac(int64(i), s), Frac(int64(j), s), Frac(int64(k), s), Frac(int64(w), s), level)
						require.Equal(t, want, got, "corner level %d (%d,%d,%d,%d)", level, i, j, k, w)
						// centre of the cell
						got = mustMember(t, Frac(int64(2*i+1), 2*s), Frac(int64(2*j+1), 2*s), Frac(int64(2*k+1), 2*s), Frac(int64(2*w+1), 2*s), level)
						require.Equal(t, want, got, "centre level %d (%d,%d,%d,%d)", level, i, j, k, w)
					}
				}
			}
		}
	}
}

func TestIsMemberPermutationSymmetry(t *testing.T) {
	vals := []Coord{Frac(0, 1), Frac(1, 3), Frac(4, 9), Frac(1, 2), Frac(5, 7), Frac(13, 27), Frac(1, 1)}
	perms := [][4]int{
		{0, 1, 2, 3}, {1, 0, 2, 3}, {2, 3, 0, 1}, {3, 2, 1, 0}, {1, 2, 3, 0}, {0, 3, 1, 2},
	}
	for a := range vals {
		for b := range vals {
			p := [4]Coord{vals[a], vals[b], vals[(a+b)%len(vals)], vals[(a*b+1)%len(vals)]}
			want := mustMember(t, p[0], p[1], p[2], p[3], 3)
			for _, pm := range perms {
				got := mustMember(t, p[pm[0]], p[pm[1]], p[pm[2]], p[pm[3]], 3)
				assert.Equal(t, want, got, "point %v permutation %v", p, pm)
			}
		}
	}
}

func TestIsMemberMonotonic(t *testing.T) {
	const n = 12
	for i := int64(0); i <= n; i++ {
		for j := int64(0); j <= n; j++ {
			x, y := Frac(i, n), Frac(j, n)
			z, w := Frac((i+j)%(n+1), n), Frac(n/2, n)
			prev := true
			for level := 0; level <= 5; level++ {
				cur := mustMember(t, x, y, z, w, level)
				if cur {
					assert.True(t, prev, "point (%v,%v,%v,%v) reappears at level %d", x, y, z, w, level)
				}
				prev = cur
			}
		}
	}
}

func TestIsMemberValidation(t *testing.T) {
	ok := Frac(1, 2)
	_, err := IsMember(ok, ok, ok, ok, -1)
	assert.ErrorIs(t, err, ErrInvalidLevel)

	for _, bad := range []Coord{Frac(3, 2), Frac(-1, 2), Frac(1, 0), Frac(1, -2), Frac(0, MaxDenominator+1)} {
		_, err := IsMember(ok, ok, bad, ok, 1)
		assert.ErrorIs(t, err, ErrCoordinate, "coord %v", bad)
	}
}

func TestCoordTernary(t *testing.T) {
	digits, err := Frac(2, 9).Ternary(4)
	require.NoError(t, err)
	if diff := cmp.Diff([]int{0, 2, 0, 2}, digits); diff != "" {
		t.Fatalf("2/9 digits (-want +got):\n%s", diff)
	}
	digits, err = Frac(1, 2).Ternary(4)
	require.NoError(t, err)
	if diff := cmp.Diff([]int{1, 1, 1, 1}, digits); diff != "" {
		t.Fatalf("1/2 digits (-want +got):\n%s", diff)
	}
}

func TestCoordTernaryRejectsInvalid(t *testing.T) {
	for _, bad := range []Coord{Frac(5, 2), Frac(-1, 3), Frac(1, 0), Frac(1, MaxDenominator+1)} {
		digits, err := bad.Ternary(3)
		assert.ErrorIs(t, err, ErrCoordinate, "coord %v", bad)
		assert.Nil(t, digits)
	}
}

func TestParseCoord(t *testing.T) {
	c, err := ParseCoord("2/6")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Cmp(Frac(1, 3)))

	c, err = ParseCoord(" 0.25 ")
	require.NoError(t, err)
	assert.Equal(t, Frac(1, 4), c)

	c, err = ParseCoord("1")
	require.NoError(t, err)
	assert.Equal(t, Frac(1, 1), c)

	for _, bad := range []string{"", "x", "3/2", "-1/3"} {
		_, err := ParseCoord(bad)
		assert.ErrorIs(t, err, ErrCoordinate, "input %q", bad)
	}
}
