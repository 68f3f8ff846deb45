// Package sponge computes the 4-dimensional Menger sponge.
//
// Two exact membership strategies are provided. Build constructs the whole
// occupancy lattice of side 3^level by iterative self-similar expansion;
// IsMember decides a single point with exact rational coordinates by
// inspecting its first level ternary digits. At every subdivision step a
// sub-hypercube is removed when three or four of its four base-3 indices
// equal 1.
//
// GenerateSlices turns either strategy into an ordered sequence of 3D
// cross-sections taken along the fourth axis.
package sponge
