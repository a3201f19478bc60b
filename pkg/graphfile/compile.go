package graphfile

import (
	"github.com/hweiss/calcgraph/pkg/calcgraph"
	"github.com/hweiss/calcgraph/pkg/errors"
)

// Compile validates the description and builds the corresponding engine
// graph: one node per spec, inputs wired in declared order, output
// designated. The returned graph is ready for Compute.
func Compile(d Description) (*calcgraph.Graph[Value], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	g := calcgraph.New[Value]()
	handles := make(map[string]calcgraph.Handle, len(d.Nodes))
	for _, n := range d.Nodes {
		handles[n.ID] = g.InsertNode(n.DisplayName(), ops[n.Op].build(n))
	}
	for _, n := range d.Nodes {
		if len(n.Inputs) == 0 {
			continue
		}
		inputs := make([]calcgraph.Handle, len(n.Inputs))
		for i, in := range n.Inputs {
			inputs[i] = handles[in]
		}
		if err := g.SetInputs(handles[n.ID], inputs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "wire node %q", n.ID)
		}
	}
	if err := g.DesignateOutput(handles[d.Output]); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "designate output %q", d.Output)
	}
	return g, nil
}
