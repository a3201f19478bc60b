package calcgraph

// cell is a shared-ownership box for a finalized node value. Several
// not-yet-executed consumers may reference the same cell; the count
// tracks how many references are live so the final extraction can
// verify the output value is uniquely owned.
//
// Cells only ever grant read access to values that are already
// permanently finalized, so no synchronization is needed.
type cell[T any] struct {
	value T
	refs  int
}

// newCell wraps v in a cell with a single reference (the owning node record).
func newCell[T any](v T) *cell[T] {
	return &cell[T]{value: v, refs: 1}
}

// clone hands out an additional shared reference to the cell.
func (c *cell[T]) clone() *cell[T] {
	c.refs++
	return c
}

// release drops one shared reference.
func (c *cell[T]) release() {
	c.refs--
}

// tryUnwrap extracts the value if the caller holds the only reference.
// Returns false when other references are still live, which after a full
// evaluation indicates a reference-accounting bug.
func (c *cell[T]) tryUnwrap() (T, bool) {
	if c.refs != 1 {
		var zero T
		return zero, false
	}
	c.refs = 0
	return c.value, true
}
