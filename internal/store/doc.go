// Package store provides the persistent, content-addressed quad store.
//
// Statements are held in nested levels graph → subject → predicate → object →
// Meta, each level a persistent hash trie keyed by the canonical term key.
// Every mutation returns a new *Store that shares untouched structure with its
// parent, so a reader holding an older *Store is never affected by later writes.
//
// # Contract
//
//   - Insert is idempotent and rejects non-ground statements.
//   - Re-inserting merges metadata; the inferred flag, once set, stays set.
//   - Delete collapses levels that become empty.
//   - Query never fails: an empty result means "no match".
//   - Structural positions (lists, formulae) match by value. A list pattern
//     matches a first/rest chain in the data and a natively stored List alike.
//
// The default graph uses a private sentinel key that no term key can collide with.
package store
