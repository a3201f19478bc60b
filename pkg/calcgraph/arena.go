package calcgraph

// Key identifies a slot in the node arena. A Key pairs a slot index with
// the generation the slot had when the node was inserted, so a Key held
// after its node was removed can never alias a later occupant of the
// same slot. The zero Key is never issued and matches no slot.
type Key struct {
	index      uint32
	generation uint32
}

// isZero reports whether k is the never-issued zero Key.
func (k Key) isZero() bool { return k.generation == 0 }

// slot holds one arena entry. A slot is occupied when node is non-nil.
// The generation is bumped on every removal, invalidating outstanding
// keys that still point at the slot.
type slot[T any] struct {
	node       *node[T]
	generation uint32
}

// arena is generational-key storage for node records. Slots freed by
// remove are reused by later inserts in LIFO order, with the generation
// bump keeping stale keys from resolving.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// insert stores n and returns its key. O(1) amortized.
func (a *arena[T]) insert(n *node[T]) Key {
	a.count++
	if len(a.free) > 0 {
		idx := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		a.slots[idx].node = n
		return Key{index: idx, generation: a.slots[idx].generation}
	}
	// Generations start at 1 so the zero Key stays invalid.
	a.slots = append(a.slots, slot[T]{node: n, generation: 1})
	return Key{index: uint32(len(a.slots) - 1), generation: 1}
}

// get resolves k to its node. Returns false for stale or never-issued keys.
func (a *arena[T]) get(k Key) (*node[T], bool) {
	if k.isZero() || int(k.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[k.index]
	if s.node == nil || s.generation != k.generation {
		return nil, false
	}
	return s.node, true
}

// remove frees the slot referenced by k and invalidates the key's
// generation. Returns false if k was already stale.
func (a *arena[T]) remove(k Key) bool {
	if _, ok := a.get(k); !ok {
		return false
	}
	s := &a.slots[k.index]
	s.node = nil
	s.generation++
	a.free = append(a.free, k.index)
	a.count--
	return true
}

// retain removes every node for which keep returns false.
// Keys are visited in slot order.
func (a *arena[T]) retain(keep func(Key, *node[T]) bool) {
	for _, k := range a.keys() {
		n, ok := a.get(k)
		if !ok {
			continue
		}
		if !keep(k, n) {
			a.remove(k)
		}
	}
}

// len returns the number of live nodes.
func (a *arena[T]) len() int { return a.count }

// keys returns the keys of all live nodes in stable slot order.
func (a *arena[T]) keys() []Key {
	keys := make([]Key, 0, a.count)
	for i := range a.slots {
		if a.slots[i].node != nil {
			keys = append(keys, Key{index: uint32(i), generation: a.slots[i].generation})
		}
	}
	return keys
}
