// Package crdt holds the identifier and sequence primitives used by the
// reMarkable format's text and scene-tree CRDTs. The reader preserves
// these structures verbatim; it never merges or reorders them — that is
// the concern of a downstream renderer, out of scope here.
package crdt

import "fmt"

// ID uniquely identifies an editable element: a pair of (part1, part2).
// The zero value (0, 0) is the default/unset identifier.
type ID struct {
	Part1 uint8
	Part2 uint32
}

func (id ID) String() string {
	return fmt.Sprintf("(%d, %d)", id.Part1, id.Part2)
}

// IsZero reports whether id is the default (0, 0) identifier.
func (id ID) IsZero() bool {
	return id.Part1 == 0 && id.Part2 == 0
}

// Lww is a last-writer-wins register: a value alongside the identifier
// of the write that produced it, used as a tiebreaker.
type Lww[T any] struct {
	Timestamp ID
	Value     T
}

// SequenceItem is one position in an ordered CRDT sequence. LeftID and
// RightID are neighbor references recorded as data, not ownership —
// this reader does not use them to reconstruct sequence order.
type SequenceItem[T any] struct {
	ItemID        ID
	LeftID        ID
	RightID       ID
	DeletedLength uint32
	Value         T
}

// Sequence is a keyed collection of sequence items. Insertion order is
// preserved for convenience but is not load-bearing: correctness comes
// from ItemID, not position.
type Sequence[T any] struct {
	Items []SequenceItem[T]
}

// NewSequence returns an empty sequence.
func NewSequence[T any]() *Sequence[T] {
	return &Sequence[T]{}
}

// Add appends an item to the sequence.
func (s *Sequence[T]) Add(item SequenceItem[T]) {
	s.Items = append(s.Items, item)
}

// Len returns the number of items in the sequence.
func (s *Sequence[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}
