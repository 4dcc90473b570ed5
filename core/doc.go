// Package core defines the identifiers, per-table resource map, and the
// external Graph/ExecutionContext/FactorizedTable contracts that every other
// package in this module is built against.
//
// Nothing in this package stores a graph on disk or executes a query: it is
// the shared vocabulary (NodeID, EdgeID, TableIDMap) plus the collaborator
// contracts (Graph, ExecutionContext, TablePool) that the storage engine,
// task scheduler, and buffer manager are expected to satisfy. See the
// gdsgraph package for a concrete, in-memory Graph used by tests.
package core
