package store

import "hash/fnv"

// hamt is a persistent hash array mapped trie from string keys to V.
// Mutations copy the path from the root to the touched slot and share the rest.
// The zero value is an empty map.
type hamt[V any] struct {
	root *hnode[V]
	size int
}

const (
	hamtBits     = 5
	hamtMask     = 1<<hamtBits - 1
	hamtMaxDepth = 7 // 32-bit hash; the last level keeps collision buckets
)

type hnode[V any] struct {
	bitmap uint32
	slots  []hslot[V]
}

// hslot holds either a child node or one or more leaves sharing a hash prefix.
type hslot[V any] struct {
	child  *hnode[V]
	leaves []hleaf[V]
}

type hleaf[V any] struct {
	key string
	val V
}

func hashKey(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}

func slotBit(h uint32, depth int) uint32 {
	return uint32(1) << ((h >> (hamtBits * depth)) & hamtMask)
}

func (n *hnode[V]) index(bit uint32) int {
	return popcount(n.bitmap & (bit - 1))
}

func popcount(x uint32) int {
	n := 0
	for x != 0 {
		x &= x - 1
		n++
	}
	return n
}

// Len returns the number of entries.
func (m hamt[V]) Len() int { return m.size }

// Get returns the value stored under key.
func (m hamt[V]) Get(key string) (V, bool) {
	var zero V
	h := hashKey(key)
	n := m.root
	for depth := 0; n != nil; depth++ {
		bit := slotBit(h, depth)
		if n.bitmap&bit == 0 {
			return zero, false
		}
		s := n.slots[n.index(bit)]
		if s.child != nil {
			n = s.child
			continue
		}
		for _, l := range s.leaves {
			if l.key == key {
				return l.val, true
			}
		}
		return zero, false
	}
	return zero, false
}

// Put returns a map with key set to val.
func (m hamt[V]) Put(key string, val V) hamt[V] {
	root, added := put(m.root, 0, hashKey(key), key, val)
	out := hamt[V]{root: root, size: m.size}
	if added {
		out.size++
	}
	return out
}

func put[V any](n *hnode[V], depth int, h uint32, key string, val V) (*hnode[V], bool) {
	if n == nil {
		n = &hnode[V]{}
	}
	bit := slotBit(h, depth)
	idx := n.index(bit)
	out := &hnode[V]{bitmap: n.bitmap, slots: make([]hslot[V], len(n.slots), len(n.slots)+1)}
	copy(out.slots, n.slots)

	if n.bitmap&bit == 0 {
		out.bitmap |= bit
		out.slots = append(out.slots, hslot[V]{})
		copy(out.slots[idx+1:], out.slots[idx:])
		out.slots[idx] = hslot[V]{leaves: []hleaf[V]{{key: key, val: val}}}
		return out, true
	}

	s := n.slots[idx]
	if s.child != nil {
		child, added := put(s.child, depth+1, h, key, val)
		out.slots[idx] = hslot[V]{child: child}
		return out, added
	}
	for i, l := range s.leaves {
		if l.key == key {
			leaves := make([]hleaf[V], len(s.leaves))
			copy(leaves, s.leaves)
			leaves[i].val = val
			out.slots[idx] = hslot[V]{leaves: leaves}
			return out, false
		}
	}
	if depth+1 >= hamtMaxDepth {
		leaves := make([]hleaf[V], len(s.leaves), len(s.leaves)+1)
		copy(leaves, s.leaves)
		out.slots[idx] = hslot[V]{leaves: append(leaves, hleaf[V]{key: key, val: val})}
		return out, true
	}
	// push the existing leaves one level down, then insert
	var child *hnode[V]
	for _, l := range s.leaves {
		child, _ = put(child, depth+1, hashKey(l.key), l.key, l.val)
	}
	child, _ = put(child, depth+1, h, key, val)
	out.slots[idx] = hslot[V]{child: child}
	return out, true
}

// Delete returns a map without key, and whether key was present.
func (m hamt[V]) Delete(key string) (hamt[V], bool) {
	if m.root == nil {
		return m, false
	}
	root, found := del(m.root, 0, hashKey(key), key)
	if !found {
		return m, false
	}
	return hamt[V]{root: root, size: m.size - 1}, true
}

func del[V any](n *hnode[V], depth int, h uint32, key string) (*hnode[V], bool) {
	bit := slotBit(h, depth)
	if n.bitmap&bit == 0 {
		return n, false
	}
	idx := n.index(bit)
	s := n.slots[idx]

	var replacement hslot[V]
	if s.child != nil {
		child, found := del(s.child, depth+1, h, key)
		if !found {
			return n, false
		}
		if child != nil {
			replacement = hslot[V]{child: child}
		}
	} else {
		pos := -1
		for i, l := range s.leaves {
			if l.key == key {
				pos = i
				break
			}
		}
		if pos < 0 {
			return n, false
		}
		if len(s.leaves) > 1 {
			leaves := make([]hleaf[V], 0, len(s.leaves)-1)
			leaves = append(leaves, s.leaves[:pos]...)
			leaves = append(leaves, s.leaves[pos+1:]...)
			replacement = hslot[V]{leaves: leaves}
		}
	}

	if replacement.child == nil && replacement.leaves == nil {
		if len(n.slots) == 1 {
			return nil, true
		}
		out := &hnode[V]{bitmap: n.bitmap &^ bit, slots: make([]hslot[V], 0, len(n.slots)-1)}
		out.slots = append(out.slots, n.slots[:idx]...)
		out.slots = append(out.slots, n.slots[idx+1:]...)
		return out, true
	}
	out := &hnode[V]{bitmap: n.bitmap, slots: make([]hslot[V], len(n.slots))}
	copy(out.slots, n.slots)
	out.slots[idx] = replacement
	return out, true
}

// Range calls fn for every entry until fn returns false. Order is unspecified.
func (m hamt[V]) Range(fn func(key string, val V) bool) {
	if m.root != nil {
		rangeNode(m.root, fn)
	}
}

func rangeNode[V any](n *hnode[V], fn func(string, V) bool) bool {
	for _, s := range n.slots {
		if s.child != nil {
			if !rangeNode(s.child, fn) {
				return false
			}
			continue
		}
		for _, l := range s.leaves {
			if !fn(l.key, l.val) {
				return false
			}
		}
	}
	return true
}
