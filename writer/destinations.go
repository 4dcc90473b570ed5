package writer

import (
	"github.com/kuzudb/gds-core/core"
	"github.com/kuzudb/gds-core/frontier"
)

// WriteDestinations writes one distance row per reached node: for every
// offset in table, skip the source itself and any node whose PathLengths
// entry is still frontier.Unvisited, else append (source, dst, length).
// pathLengths must already be pinned to table by the caller.
func WriteDestinations(pathLengths *frontier.PathLengths, source core.NodeID, table core.TableID, maxOffset uint64, out core.FactorizedTable) {
	for off := core.Offset(0); uint64(off) < maxOffset; off++ {
		if table == source.Table && off == source.Offset {
			continue
		}
		length := pathLengths.Get(off)
		if length == frontier.Unvisited {
			continue
		}
		dst := core.NodeID{Table: table, Offset: off}
		out.Append(source, dst, int64(length))
	}
}

// WriteMultiplicities is ASP-destinations' writer: identical shape to
// WriteDestinations but repeats each row multiplicity(d) times, reading
// per-node multiplicities from a parallel atomics array keyed the same way
// as pathLengths.
func WriteMultiplicities(pathLengths *frontier.PathLengths, multiplicity func(core.Offset) uint64, source core.NodeID, table core.TableID, maxOffset uint64, out core.FactorizedTable) {
	for off := core.Offset(0); uint64(off) < maxOffset; off++ {
		if table == source.Table && off == source.Offset {
			continue
		}
		length := pathLengths.Get(off)
		if length == frontier.Unvisited {
			continue
		}
		dst := core.NodeID{Table: table, Offset: off}
		mult := multiplicity(off)
		for i := uint64(0); i < mult; i++ {
			out.Append(source, dst, int64(length))
		}
	}
}
