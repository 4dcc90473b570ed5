package atomics

import (
	"math"
	"sync/atomic"

	"github.com/kuzudb/gds-core/core"
)

// Uint32Array is a dense, relaxed-atomic array of uint32, one allocation per
// node table. The spec's PathLengths is specified as u16; Go's atomic
// package has no 16-bit primitive, so this core widens to uint32 — the
// sentinel and iteration-tag semantics are otherwise unchanged.
type Uint32Array struct {
	data []atomic.Uint32
}

// NewUint32Array allocates a Uint32Array of length n, every slot set to fill.
func NewUint32Array(n uint64, fill uint32) *Uint32Array {
	a := &Uint32Array{data: make([]atomic.Uint32, n)}
	if fill != 0 {
		for i := range a.data {
			a.data[i].Store(fill)
		}
	}
	return a
}

// Len returns the array's length (maxOffset of the table it was sized for).
func (a *Uint32Array) Len() int { return len(a.data) }

// Load returns the value at i. Caller guarantees i < Len().
func (a *Uint32Array) Load(i core.Offset) uint32 { return a.data[i].Load() }

// Store sets the value at i.
func (a *Uint32Array) Store(i core.Offset, v uint32) { a.data[i].Store(v) }

// CompareAndSwap atomically sets data[i] to new iff it currently holds old.
func (a *Uint32Array) CompareAndSwap(i core.Offset, old, new uint32) bool {
	return a.data[i].CompareAndSwap(old, new)
}

// Reset restores every slot to fill, for reuse between invocations.
func (a *Uint32Array) Reset(fill uint32) {
	for i := range a.data {
		a.data[i].Store(fill)
	}
}

// Uint64Array is a dense, relaxed-atomic array of uint64: component IDs,
// degrees, multiplicities.
type Uint64Array struct {
	data []atomic.Uint64
}

// NewUint64Array allocates a Uint64Array of length n, every slot set to fill.
func NewUint64Array(n uint64, fill uint64) *Uint64Array {
	a := &Uint64Array{data: make([]atomic.Uint64, n)}
	if fill != 0 {
		for i := range a.data {
			a.data[i].Store(fill)
		}
	}
	return a
}

// Len returns the array's length.
func (a *Uint64Array) Len() int { return len(a.data) }

// Load returns the value at i.
func (a *Uint64Array) Load(i core.Offset) uint64 { return a.data[i].Load() }

// Store sets the value at i.
func (a *Uint64Array) Store(i core.Offset, v uint64) { a.data[i].Store(v) }

// FetchAdd atomically adds delta to data[i] and returns the previous value.
func (a *Uint64Array) FetchAdd(i core.Offset, delta uint64) uint64 { return a.data[i].Add(delta) - delta }

// FetchSub atomically subtracts delta from data[i] and returns the new value.
// Saturates at zero: degree counters never go negative (a peeled edge is
// only ever decremented once, but concurrent peels of both endpoints could
// otherwise race it below zero under reordering).
func (a *Uint64Array) FetchSub(i core.Offset, delta uint64) uint64 {
	for {
		old := a.data[i].Load()
		next := uint64(0)
		if old > delta {
			next = old - delta
		}
		if a.data[i].CompareAndSwap(old, next) {
			return next
		}
	}
}

// CompareAndSwap atomically sets data[i] to new iff it currently holds old.
func (a *Uint64Array) CompareAndSwap(i core.Offset, old, new uint64) bool {
	return a.data[i].CompareAndSwap(old, new)
}

// Reset restores every slot to fill, for reuse between invocations.
func (a *Uint64Array) Reset(fill uint64) {
	for i := range a.data {
		a.data[i].Store(fill)
	}
}

// FetchAddSigned atomically adds a possibly-negative delta to data[i],
// relying on uint64 arithmetic being modular: encoding delta as
// uint64(delta) and accumulating via Add wraps exactly the way two's
// complement signed addition would, so concurrent positive and negative
// contributions (Louvain's per-community size/degree deltas) settle on
// the correct value once every
// contributor for the round has applied, even though an individual
// intermediate read may look like a huge unsigned number.
func (a *Uint64Array) FetchAddSigned(i core.Offset, delta int64) {
	a.data[i].Add(uint64(delta))
}

// CASIfLess atomically sets data[i] to candidate iff candidate is strictly
// less than the current value, looping until it wins the race or loses to
// an equal-or-smaller value. Returns true iff it installed candidate —
// the CAS-on-minimum idiom behind WCC/WSP-style monotonically-decreasing
// updates.
func (a *Uint64Array) CASIfLess(i core.Offset, candidate uint64) bool {
	for {
		cur := a.data[i].Load()
		if candidate >= cur {
			return false
		}
		if a.data[i].CompareAndSwap(cur, candidate) {
			return true
		}
	}
}

// Float64Array is a dense, relaxed-atomic array of float64, built on
// Uint64Array's bit pattern since the standard library has no atomic
// float64 primitive.
type Float64Array struct {
	bits Uint64Array
}

// NewFloat64Array allocates a Float64Array of length n, every slot set to fill.
func NewFloat64Array(n uint64, fill float64) *Float64Array {
	return &Float64Array{bits: *NewUint64Array(n, math.Float64bits(fill))}
}

// Len returns the array's length.
func (a *Float64Array) Len() int { return a.bits.Len() }

// Load returns the value at i.
func (a *Float64Array) Load(i core.Offset) float64 {
	return math.Float64frombits(a.bits.Load(i))
}

// Store sets the value at i.
func (a *Float64Array) Store(i core.Offset, v float64) {
	a.bits.Store(i, math.Float64bits(v))
}

// FetchAdd atomically adds delta to data[i] and returns the updated value,
// looping on compare-and-swap since there is no hardware float atomic-add.
func (a *Float64Array) FetchAdd(i core.Offset, delta float64) float64 {
	for {
		oldBits := a.bits.Load(i)
		newVal := math.Float64frombits(oldBits) + delta
		if a.bits.CompareAndSwap(i, oldBits, math.Float64bits(newVal)) {
			return newVal
		}
	}
}

// Reset restores every slot to fill, for reuse between invocations.
func (a *Float64Array) Reset(fill float64) {
	a.bits.Reset(math.Float64bits(fill))
}

// CASIfLess atomically sets data[i] to candidate iff candidate is strictly
// less than the current value. Correct only for non-negative, finite costs
// (NaN never compares less than anything, so a NaN candidate is silently
// dropped rather than corrupting the array); negative weights would break
// the monotonicity argument and are not supported.
func (a *Float64Array) CASIfLess(i core.Offset, candidate float64) bool {
	for {
		curBits := a.bits.Load(i)
		cur := math.Float64frombits(curBits)
		if !(candidate < cur) {
			return false
		}
		if a.bits.CompareAndSwap(i, curBits, math.Float64bits(candidate)) {
			return true
		}
	}
}

// AllocateUint32Arrays allocates one Uint32Array per node table in graph,
// each sized to that table's maxOffset and filled with fill.
func AllocateUint32Arrays(graph core.Graph, fill uint32) *core.TableIDMap[*Uint32Array] {
	m := core.NewTableIDMap[*Uint32Array]()
	for _, t := range graph.NodeTableIDs() {
		m.Set(t, NewUint32Array(graph.MaxOffset(t), fill))
	}
	return m
}

// AllocateUint64Arrays allocates one Uint64Array per node table in graph.
func AllocateUint64Arrays(graph core.Graph, fill uint64) *core.TableIDMap[*Uint64Array] {
	m := core.NewTableIDMap[*Uint64Array]()
	for _, t := range graph.NodeTableIDs() {
		m.Set(t, NewUint64Array(graph.MaxOffset(t), fill))
	}
	return m
}

// AllocateFloat64Arrays allocates one Float64Array per node table in graph.
func AllocateFloat64Arrays(graph core.Graph, fill float64) *core.TableIDMap[*Float64Array] {
	m := core.NewTableIDMap[*Float64Array]()
	for _, t := range graph.NodeTableIDs() {
		m.Set(t, NewFloat64Array(graph.MaxOffset(t), fill))
	}
	return m
}
