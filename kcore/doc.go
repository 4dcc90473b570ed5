// Package kcore implements k-core decomposition by iterative degree
// peeling: a one-shot both-direction degree count, then for increasing k,
// repeatedly assign any node whose remaining degree has
// dropped to k or below and decrement its neighbors' degrees, until every
// node has been assigned a core number.
package kcore
