package calcgraph

import "time"

// EvalHooks receives events from a running evaluation. Hooks enable
// progress display and instrumentation without coupling the engine to a
// specific backend. All callbacks run synchronously on the evaluating
// goroutine.
type EvalHooks interface {
	// OnSweep reports how many unreachable nodes were removed by the
	// dead-code sweep before evaluation began.
	OnSweep(removed int)

	// OnNodeStart fires just before a node's function is invoked.
	OnNodeStart(name string)

	// OnNodeDone fires after a node's function has returned.
	OnNodeDone(name string, elapsed time.Duration)

	// OnNodeReclaimed fires when a node record is released because its
	// last consumer has run. The output node is never reclaimed this way.
	OnNodeReclaimed(name string)
}

// NopHooks is an EvalHooks implementation that ignores all events.
type NopHooks struct{}

func (NopHooks) OnSweep(int)                      {}
func (NopHooks) OnNodeStart(string)               {}
func (NopHooks) OnNodeDone(string, time.Duration) {}
func (NopHooks) OnNodeReclaimed(string)           {}

var _ EvalHooks = NopHooks{}
