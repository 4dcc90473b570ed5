// Package compute declares the EdgeCompute and VertexCompute contracts every
// algorithm in this core implements.
//
// Rather than a virtual-method hierarchy of compute-state base classes,
// every compute value here exposes a plain Clone method — the scheduler
// calls it once per worker and holds the result directly, not behind a
// dynamically-dispatched pointer.
package compute
