// Package sp implements the shortest-path variants: SP and ASP (unweighted,
// driven by driver.ExtensionStep's frontier narrowing) and WSP/AWSP
// (weighted, driven by a monotonically-decreasing CAS over
// parentgraph.BFSGraph's published costs). All four share the same driver
// loop; they differ in their compute.EdgeCompute, and WSP/AWSP additionally
// run on a double-buffered frontier.Pair with a weight projection and their
// own output writers.
package sp
