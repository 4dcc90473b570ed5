// Package scheduler wraps one compute invocation as a schedulable task: N
// clones of a compute.EdgeCompute or compute.VertexCompute race over a
// frontier.Dispatcher's morsels until it is drained.
//
// Concurrency model: a bounded pool of k worker goroutines, each holding a
// weight from a golang.org/x/sync/semaphore.Weighted, with
// golang.org/x/sync/errgroup collecting the first error and cancelling the
// rest — the calling goroutine itself never acquires a weight, so it does
// not consume a worker slot while it waits on Wait.
package scheduler
