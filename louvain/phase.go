package louvain

import (
	"context"
	"math"

	"github.com/kuzudb/gds-core/atomics"
	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/frontier"
	"github.com/kuzudb/gds-core/scheduler"
)

// commInfos holds the two pre-aggregated per-community atomics: community
// size and community weighted-degree.
type commInfos struct {
	size           *atomics.Uint64Array
	weightedDegree *atomics.Float64Array
}

func newCommInfos(n int) *commInfos {
	return &commInfos{
		size:           atomics.NewUint64Array(uint64(n), 0),
		weightedDegree: atomics.NewFloat64Array(uint64(n), 0),
	}
}

func (c *commInfos) reset() {
	c.size.Reset(0)
	c.weightedDegree.Reset(0)
}

// phaseState is the current in-memory graph plus the five per-node atomic
// arrays and two per-community info arrays one Louvain phase needs.
type phaseState struct {
	graph *inMemGraph

	nodeWeightedDegrees *atomics.Float64Array
	acceptedComm        *atomics.Uint64Array
	currComm            *atomics.Uint64Array
	nextComm            *atomics.Uint64Array
	selfCommWeights     *atomics.Float64Array

	currCommInfos *commInfos
	nextCommInfos *commInfos

	totalWeight        float64
	modularityConstant float64
}

// newPhaseState builds the per-phase state over g, seeding every node into
// its own singleton community, the state every phase — including
// post-aggregation ones — starts from.
func newPhaseState(g *inMemGraph) *phaseState {
	n := g.numNodes
	ps := &phaseState{
		graph:               g,
		nodeWeightedDegrees: atomics.NewFloat64Array(uint64(n), 0),
		acceptedComm:        atomics.NewUint64Array(uint64(n), 0),
		currComm:            atomics.NewUint64Array(uint64(n), 0),
		nextComm:            atomics.NewUint64Array(uint64(n), 0),
		selfCommWeights:     atomics.NewFloat64Array(uint64(n), 0),
		currCommInfos:       newCommInfos(n),
		nextCommInfos:       newCommInfos(n),
	}
	var total float64
	for i := 0; i < n; i++ {
		var deg float64
		g.forEachNbr(i, func(_ int, w float64) { deg += w })
		ps.nodeWeightedDegrees.Store(core.Offset(i), deg)
		ps.currComm.Store(core.Offset(i), uint64(i))
		ps.acceptedComm.Store(core.Offset(i), uint64(i))
		ps.currCommInfos.size.Store(core.Offset(i), 1)
		ps.currCommInfos.weightedDegree.Store(core.Offset(i), deg)
		total += deg
	}
	ps.totalWeight = total
	if ps.totalWeight > 0 {
		ps.modularityConstant = 1 / ps.totalWeight
	}
	return ps
}

// startNewIter zeros selfCommWeights and nextCommInfos ahead of a runIteration
// pass.
func (ps *phaseState) startNewIter() {
	ps.selfCommWeights.Reset(0)
	ps.nextCommInfos.reset()
}

// runIteration evaluates, for every node in parallel, the modularity-
// maximizing community move and stages it into nextComm/nextCommInfos.
// Never mutates currComm itself — moves only take
// effect when the caller commits them.
func runIteration(ctx context.Context, ectx core.ExecutionContext, ps *phaseState, numWorkers int) error {
	n := ps.graph.numNodes
	dispatcher := frontier.NewDispatcher(uint64(n), numWorkers)
	return scheduler.Run(ctx, numWorkers, dispatcher, ectx.Interrupted, func() scheduler.WorkerFunc {
		intraWeights := make(map[uint64]float64)
		return func(m frontier.Morsel) error {
			for off := m.Begin; off < m.End; off++ {
				evaluateNode(ps, int(off), intraWeights)
			}
			return nil
		}
	})
}

// evaluateNode evaluates one node's best community move, reusing the
// caller-owned intraWeights scratch map across calls within a worker to
// avoid an allocation per node.
func evaluateNode(ps *phaseState, node int, intraWeights map[uint64]float64) {
	for k := range intraWeights {
		delete(intraWeights, k)
	}

	curr := ps.currComm.Load(core.Offset(node))
	deg := ps.nodeWeightedDegrees.Load(core.Offset(node))
	K := ps.modularityConstant

	ps.graph.forEachNbr(node, func(nbr int, w float64) {
		if nbr == node {
			return
		}
		c := ps.currComm.Load(core.Offset(nbr))
		intraWeights[c] += w
	})

	wToCurr := intraWeights[curr]
	degOtherInCurr := ps.currCommInfos.weightedDegree.Load(core.Offset(curr)) - deg

	best := curr
	bestGain := 0.0
	currSize := ps.currCommInfos.size.Load(core.Offset(curr))

	// Find the single best candidate across the whole loop, unconditionally
	// — swap protection is a one-time check applied after the fact to
	// whatever the loop settled on, never a per-candidate skip. Skipping a
	// blocked candidate mid-loop would leave best/bestGain stale and let a
	// later, lower-gain candidate win instead of correctly keeping the node
	// in its current community.
	for cand, wToCand := range intraWeights {
		if cand == curr {
			continue
		}
		degOtherInCand := ps.currCommInfos.weightedDegree.Load(core.Offset(cand))
		gain := 2*(wToCand-wToCurr) - 2*deg*K*(degOtherInCand-degOtherInCurr)

		switch {
		case gain > bestGain:
			best, bestGain = cand, gain
		case math.Abs(gain-bestGain) < Threshold && gain > 0 && cand < best:
			best, bestGain = cand, gain
		}
	}

	// Swap protection, applied once to the final
	// choice: a node in a singleton community may not move into another
	// singleton community with a larger id, whatever the gain. A blocked
	// swap reverts to curr outright — it never falls back to
	// searching for a different candidate.
	if best != curr {
		bestSize := ps.currCommInfos.size.Load(core.Offset(best))
		if currSize == 1 && bestSize == 1 && best > curr {
			best = curr
		}
	}

	ps.nextComm.Store(core.Offset(node), best)
	// intraCommWeights to the node's current (pre-move) community is always
	// what feeds the modularity accounting, regardless of which community
	// this node is about to move to.
	ps.selfCommWeights.Store(core.Offset(node), wToCurr)

	if best != curr {
		ps.nextCommInfos.size.FetchAddSigned(core.Offset(best), 1)
		ps.nextCommInfos.weightedDegree.FetchAdd(core.Offset(best), deg)
		ps.nextCommInfos.size.FetchAddSigned(core.Offset(curr), -1)
		ps.nextCommInfos.weightedDegree.FetchAdd(core.Offset(curr), -deg)
	}
}

// computeModularity evaluates the ×2m-form modularity of
// the *current* node communities — i.e. before the moves runIteration just
// staged into nextComm/nextCommInfos, which is what keeps selfCommWeights'
// accounting simple: currMod = ΣselfCommWeights·K − Σ(deg²)·K², both terms
// read purely off currCommInfos, untouched by this iteration's staged-but-
// uncommitted deltas.
func computeModularity(ps *phaseState) float64 {
	n := ps.graph.numNodes
	var selfSum float64
	for i := 0; i < n; i++ {
		selfSum += ps.selfCommWeights.Load(core.Offset(i))
	}

	K := ps.modularityConstant
	var degSqSum float64
	for c := 0; c < n; c++ {
		deg := ps.currCommInfos.weightedDegree.Load(core.Offset(c))
		degSqSum += deg * deg
	}

	return selfSum*K - degSqSum*K*K
}

// commit applies the moves staged in nextComm/nextCommInfos: folds the
// deltas into currCommInfos, then rotates the three community-id buffers
// (acceptedComm takes currComm, currComm takes nextComm), reusing all
// three allocations across iterations.
func (ps *phaseState) commit() {
	n := ps.graph.numNodes
	for c := 0; c < n; c++ {
		off := core.Offset(c)
		delta := ps.nextCommInfos.size.Load(off)
		if delta != 0 {
			// delta is whatever bit pattern FetchAddSigned wrote; re-adding
			// it is safe since uint64 addition is modular, so the signed
			// effect survives the round trip through Load.
			ps.currCommInfos.size.FetchAdd(off, delta)
		}
		wd := ps.nextCommInfos.weightedDegree.Load(off)
		if wd != 0 {
			ps.currCommInfos.weightedDegree.FetchAdd(off, wd)
		}
	}
	ps.acceptedComm, ps.currComm, ps.nextComm = ps.currComm, ps.nextComm, ps.acceptedComm
}
