// Package gdsconfig collects the per-algorithm configuration every package
// in this core binds against: one functional-options Config shared across
// algorithms, since they draw from a small common set of knobs
// (maxIterations, tolerance, variant, weight property, damping factor).
//
// Bind-time validation panics inside the Option constructor, on the theory
// that a caller building options with a literal out-of-range constant is a
// programming error caught at construction, not a runtime condition to
// propagate — by the time the resulting Config value reaches an
// algorithm's Run, it is known-valid.
package gdsconfig
