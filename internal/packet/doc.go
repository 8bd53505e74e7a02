// Package packet owns the packet bit format and its parsing primitives.
//
// Ownership boundary:
// - hex expansion into packed bit strings
// - recursive decode into literal/operator trees
// - encode back to bits (inverse of decode)
// - version sum and evaluation queries over decoded trees
package packet
