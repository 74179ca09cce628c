package ustr

import "iter"

// minMapSize is the initial table size for Map. Must be a power of two.
const minMapSize = 8

type slotState uint8

const (
	slotEmpty slotState = iota
	slotFull
	slotDeleted
)

type mapEntry[V any] struct {
	key   Ustr
	val   V
	state slotState
}

// Map is a hash map keyed by interned handles. The bucket hash is the
// key's precomputed Hash(), so inserting or looking up a key never hashes
// string content — the value computed once at intern time is reused for
// every container operation.
//
// The zero value is an empty map ready for use. Keys must be non-nil
// handles from a single Cache. Iteration order is unspecified. Deleting an
// entry removes it from the map only; interned strings are never
// reclaimed.
//
// Map is not safe for concurrent use.
type Map[V any] struct {
	entries []mapEntry[V]
	count   int // live entries
	used    int // live entries plus tombstoned slots
}

// Set inserts or updates the value for k.
func (m *Map[V]) Set(k Ustr, v V) {
	if m.entries == nil {
		m.entries = make([]mapEntry[V], minMapSize)
	} else if (m.used+1)*4 > len(m.entries)*3 {
		m.rehash()
	}

	mask := uint64(len(m.entries) - 1)
	i := k.Hash() & mask
	insert := -1
	for {
		e := &m.entries[i]
		switch e.state {
		case slotFull:
			if e.key == k {
				e.val = v
				return
			}
		case slotDeleted:
			// Remember the first tombstone; keep probing in case the
			// key exists further along the chain.
			if insert < 0 {
				insert = int(i)
			}
		case slotEmpty:
			if insert < 0 {
				insert = int(i)
				m.used++
			}
			t := &m.entries[insert]
			t.key, t.val, t.state = k, v, slotFull
			m.count++
			return
		}
		i = (i + 1) & mask
	}
}

// Get returns the value for k and a presence flag.
func (m *Map[V]) Get(k Ustr) (V, bool) {
	var zero V
	if m.count == 0 {
		return zero, false
	}
	mask := uint64(len(m.entries) - 1)
	i := k.Hash() & mask
	for {
		e := &m.entries[i]
		switch e.state {
		case slotEmpty:
			return zero, false
		case slotFull:
			if e.key == k {
				return e.val, true
			}
		}
		i = (i + 1) & mask
	}
}

// Delete removes k if present and returns true on success.
func (m *Map[V]) Delete(k Ustr) bool {
	if m.count == 0 {
		return false
	}
	mask := uint64(len(m.entries) - 1)
	i := k.Hash() & mask
	for {
		e := &m.entries[i]
		switch e.state {
		case slotEmpty:
			return false
		case slotFull:
			if e.key == k {
				var zero V
				e.key, e.val, e.state = Ustr{}, zero, slotDeleted
				m.count--
				return true
			}
		}
		i = (i + 1) & mask
	}
}

// Len returns the number of live entries.
func (m *Map[V]) Len() int { return m.count }

// All iterates over the live entries in unspecified order.
func (m *Map[V]) All() iter.Seq2[Ustr, V] {
	return func(yield func(Ustr, V) bool) {
		for i := range m.entries {
			e := &m.entries[i]
			if e.state == slotFull && !yield(e.key, e.val) {
				return
			}
		}
	}
}

// rehash rebuilds the table, doubling it when live entries justify the
// space and otherwise just purging tombstones. Reinsertion uses each key's
// cached hash.
func (m *Map[V]) rehash() {
	size := len(m.entries)
	if (m.count+1)*2 > size {
		size *= 2
	}
	old := m.entries
	m.entries = make([]mapEntry[V], size)
	m.used = m.count
	mask := uint64(size - 1)
	for idx := range old {
		e := &old[idx]
		if e.state != slotFull {
			continue
		}
		i := e.key.Hash() & mask
		for m.entries[i].state == slotFull {
			i = (i + 1) & mask
		}
		m.entries[i] = mapEntry[V]{key: e.key, val: e.val, state: slotFull}
	}
}
