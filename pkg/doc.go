// Package pkg provides the core libraries for calcgraph computation graphs.
//
// # Overview
//
// Calcgraph evaluates directed acyclic computation graphs where every
// node holds an opaque function over the values of its inputs. The pkg
// directory is organized into these areas:
//
//  1. [calcgraph] - The engine (graph building, toposort, evaluation, DOT export)
//  2. [graphfile] - Description files (TOML/JSON) and builtin ops
//  3. [cache] - Evaluation result caching (file, Redis, null)
//  4. [store] - Named graph persistence (memory, MongoDB)
//  5. [render] - Graphviz rendering of DOT output
//  6. [errors] - Structured error codes shared across layers
//
// # Architecture
//
// The typical data flow:
//
//	graph.toml / graph.json
//	         ↓
//	    [graphfile] package (parse, validate, compile)
//	         ↓
//	    [calcgraph] package (toposort, sweep, evaluate)
//	         ↓
//	    result value / DOT diagram
//
// The CLI and the HTTP server (under internal/) are thin layers over
// these packages; anything they can do is available as a library call.
package pkg
