package dat

/*

# Double-array trie term dictionaries

This package implements the double-array trie described by Aoe in "An
Efficient Implementation of Trie Structures". A trie over runes is encoded in
two parallel int32 arrays, BASE and CHECK, plus an optional suffix store
(TAIL). It is intended as the term dictionary underneath tokenizers and
search-term lookups: build once with a Builder, Freeze, then share the
resulting Trie between readers.

It follows the same "functional primitives" style as the other forestrie
packages:

- nodes are array indices, never objects
- explicit, versioned byte layouts for anything persisted
- sentinel errors, checked with errors.Is
- a burden of knowledge on the caller for hot paths

## Transitions

For a node n and an arc code a (the Alphabet code of a rune):

	m = BASE[n] + a      the candidate child
	CHECK[m] == n        m is a child of n via a
	CHECK[m] == 0        m is free
	BASE[m]  <  0        m is a leaf

The root is node 1 with BASE[1] = 1. Every child index is q + a with q >= 1
and a >= 1, so index 0 is never used and the root can never be claimed as a
child.

## Variants

VariantTail (the default) stores the unshared remainder of each term in the
suffix store. A leaf's BASE is the negated TAIL offset of its remainder.
Remainders are terminated by the separator code. When a new term reaches a
leaf, the shared part of the two remainders is materialised as real nodes
and two fresh leaves are created (the "split").

VariantSeparator stores no suffixes. Every term is spelled out node by node
and terminated by an explicit separator arc into a leaf whose negative BASE
is the term's ordinal. This uses more BASE/CHECK slots but never splits.

## Collisions

When the slot a node needs is owned by another parent, one of the two nodes
is relocated: a new base is found by linear probing (the "x-check") over its
arcs, each child is copied to its new slot, the grandchildren are
re-parented and the old slots are zeroed. The node with fewer arcs moves.
The root never moves.

Both variants keep an explicit per-node arc registry so relocation never has
to scan CHECK.

## Concurrency

A Builder is single-writer and unsynchronized. A frozen Trie never mutates
and is safe for concurrent Contains calls.

*/
