package gdsconfig

import (
	"errors"
	"fmt"
)

// Sentinel errors of the user/bind class: the With... constructors panic
// with their text, and RequireWeightProperty returns ErrEmptyWeightColumn.
var (
	ErrBadMaxIterations  = errors.New("gdsconfig: maxIterations must be positive")
	ErrBadMaxPhases      = errors.New("gdsconfig: maxPhases must be positive")
	ErrBadTolerance      = errors.New("gdsconfig: tolerance must be positive")
	ErrBadDampingFactor  = errors.New("gdsconfig: dampingFactor must be in (0,1)")
	ErrUnknownVariant    = errors.New("gdsconfig: variant must be \"min\" or \"max\"")
	ErrEmptyWeightColumn = errors.New("gdsconfig: weightProperty must be non-empty when weighting is required")
)

// Variant selects the MIN/MAX spanning-forest tie-break direction.
type Variant string

const (
	VariantMin Variant = "min"
	VariantMax Variant = "max"
)

// Config holds every tunable this core's algorithms read from. Not every
// field applies to every algorithm; each
// algorithm package documents which subset it consults.
type Config struct {
	MaxIterations  int64
	MaxPhases      int64
	Tolerance      float64
	Variant        Variant
	WeightProperty string
	DampingFactor  float64
}

// Option mutates a Config under construction. Constructors panic on
// malformed literal arguments: an invalid constant is a caller bug, not a
// runtime condition.
type Option func(*Config)

// Default returns a Config seeded with every option's documented default.
func Default() Config {
	return Config{
		MaxIterations: 100,
		MaxPhases:     20,
		Tolerance:     1e-12,
		Variant:       VariantMin,
		DampingFactor: 0.85,
	}
}

// New builds a Config from Default(), applying opts in order.
func New(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxIterations overrides maxIterations (WCC/SCC/K-Core/variable-length
// default 100; Louvain callers should also set WithMaxIterations(20) since
// Louvain's default iteration cap differs from the shared default).
func WithMaxIterations(n int64) Option {
	if n <= 0 {
		panic(ErrBadMaxIterations.Error())
	}
	return func(c *Config) { c.MaxIterations = n }
}

// WithMaxPhases overrides Louvain's phase cap.
func WithMaxPhases(n int64) Option {
	if n <= 0 {
		panic(ErrBadMaxPhases.Error())
	}
	return func(c *Config) { c.MaxPhases = n }
}

// WithTolerance overrides Louvain's modularity-gain convergence threshold.
func WithTolerance(t float64) Option {
	if t <= 0 {
		panic(ErrBadTolerance.Error())
	}
	return func(c *Config) { c.Tolerance = t }
}

// WithVariant selects the spanning-forest MIN/MAX tie-break direction.
func WithVariant(v Variant) Option {
	if v != VariantMin && v != VariantMax {
		panic(ErrUnknownVariant.Error())
	}
	return func(c *Config) { c.Variant = v }
}

// WithWeightProperty names the edge property spanning-forest/WSP read edge
// weights from.
func WithWeightProperty(name string) Option {
	if name == "" {
		panic(ErrEmptyWeightColumn.Error())
	}
	return func(c *Config) { c.WeightProperty = name }
}

// WithDampingFactor overrides PageRank's damping factor.
func WithDampingFactor(d float64) Option {
	if d <= 0 || d >= 1 {
		panic(ErrBadDampingFactor.Error())
	}
	return func(c *Config) { c.DampingFactor = d }
}

// RequireWeightProperty validates that a weighted algorithm was given a
// weight column, returning ErrEmptyWeightColumn as a runtime bind error
// rather than panicking — used once an algorithm actually needs the column,
// as opposed to WithWeightProperty's constructor-time literal check.
func (c Config) RequireWeightProperty() error {
	if c.WeightProperty == "" {
		return fmt.Errorf("%w", ErrEmptyWeightColumn)
	}
	return nil
}
