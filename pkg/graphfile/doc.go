// Package graphfile defines a serializable description format for
// computation graphs and compiles descriptions into engine graphs.
//
// A [Description] lists nodes by id, each with a builtin op, optional
// arguments and an ordered list of input ids, plus the id of the output
// node. Descriptions round-trip through JSON (wire format, Mongo
// storage) and can be hand-authored in TOML:
//
//	output = "add"
//
//	[[nodes]]
//	id = "a"
//	op = "const"
//	args = [5]
//
//	[[nodes]]
//	id = "b"
//	op = "const"
//	args = [4]
//
//	[[nodes]]
//	id = "add"
//	op = "add"
//	inputs = ["a", "b"]
//
// [Compile] turns a validated description into a ready-to-run
// calcgraph graph over the dynamic [Value] type, which covers the
// supported payloads: numbers, strings, signal sample buffers and
// character histograms.
package graphfile
