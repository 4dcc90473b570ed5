package frontier

import "sync/atomic"

// MinMorselSize is the smallest range a dispatcher ever hands out, even for
// a tiny table, so per-morsel overhead never dominates.
const MinMorselSize = 512

// MinMorsels is the floor on k² used by morselSize so a single- or
// few-worker invocation still gets more than one morsel per table.
const MinMorsels = 4

// Morsel is a half-open offset range [Begin, End) within one node table.
type Morsel struct {
	Begin uint64
	End   uint64
}

// Len returns the number of offsets covered by the morsel.
func (m Morsel) Len() uint64 { return m.End - m.Begin }

// Dispatcher hands out Morsels of one table's offset range to racing
// workers via a single atomic cursor — the work-stealing mechanism behind
// every parallel phase in this core: workers repeatedly claim the next
// unclaimed range until the table is exhausted.
type Dispatcher struct {
	maxOffset  uint64
	morselSize uint64
	next       atomic.Uint64
}

// morselSize targets enough morsels to amortize thread imbalance without
// so many that dispatcher contention dominates.
func morselSize(maxOffset uint64, numWorkers int) uint64 {
	k := uint64(numWorkers)
	denom := k * k
	if denom < MinMorsels {
		denom = MinMorsels
	}
	size := maxOffset / denom
	if size < MinMorselSize {
		size = MinMorselSize
	}
	return size
}

// NewDispatcher creates a Dispatcher over [0, maxOffset) sized for
// numWorkers racing consumers.
func NewDispatcher(maxOffset uint64, numWorkers int) *Dispatcher {
	return &Dispatcher{maxOffset: maxOffset, morselSize: morselSize(maxOffset, numWorkers)}
}

// Reset rewinds the cursor to 0, optionally over a new maxOffset — used
// when the same Dispatcher is reused across extension steps or tables.
func (d *Dispatcher) Reset(maxOffset uint64, numWorkers int) {
	d.maxOffset = maxOffset
	d.morselSize = morselSize(maxOffset, numWorkers)
	d.next.Store(0)
}

// Next atomically claims the next Morsel, returning ok=false once the
// table's offset range is drained.
func (d *Dispatcher) Next() (Morsel, bool) {
	for {
		cur := d.next.Load()
		if cur >= d.maxOffset {
			return Morsel{}, false
		}
		end := cur + d.morselSize
		if end > d.maxOffset {
			end = d.maxOffset
		}
		if d.next.CompareAndSwap(cur, end) {
			return Morsel{Begin: cur, End: end}, true
		}
	}
}
