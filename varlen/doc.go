// Package varlen implements variable-length relationship joins: every
// neighbor is activated and recorded as a parent on every iteration
// regardless of prior visitation, so the resulting parent graph carries
// every walk up to the iteration cap rather than only the shortest. Reuses
// writer.WriteSPPaths for enumeration — its lower-bound, path-semantic, and
// "emit the empty path when lowerBound is 0" handling already cover
// variable-length's contract.
package varlen
