package idset

import "github.com/flux-framework/flux-broker-go/internal/errkind"

// Idset is the public handle clients hold: a BitTree plus its
// creation-time autogrow flag. A nil *Idset is the "null idset" — a
// distinct state from an allocated-but-empty one, matching the legacy
// interface's distinction between absent and empty.
type Idset struct {
	tree *BitTree
}

// New creates an Idset with initial capacity hint mHint (0 is legal) and
// the given autogrow policy.
func New(mHint uint32, autogrow bool) *Idset {
	return &Idset{tree: NewBitTree(mHint, autogrow)}
}

// Tree exposes the underlying BitTree for packages (codec, bracemap) that
// need to iterate or populate it directly.
func (s *Idset) Tree() *BitTree {
	if s == nil {
		return nil
	}
	return s.tree
}

// Insert adds id to the set.
func (s *Idset) Insert(id uint32) error {
	if s == nil {
		return errkind.Invalidf("insert on nil idset")
	}
	return s.tree.Insert(id)
}

// Remove discards id; removing a non-member or out-of-range id silently
// succeeds.
func (s *Idset) Remove(id uint32) error {
	if s == nil {
		return nil
	}
	return s.tree.Remove(id)
}

// RangeInsert inserts every id in [lo, hi] inclusive.
func (s *Idset) RangeInsert(lo, hi uint32) error {
	if s == nil {
		return errkind.Invalidf("range_insert on nil idset")
	}
	return s.tree.RangeInsert(lo, hi)
}

// RangeRemove removes every id in [lo, hi] inclusive.
func (s *Idset) RangeRemove(lo, hi uint32) error {
	if s == nil {
		return nil
	}
	return s.tree.RangeRemove(lo, hi)
}

// Contains reports membership; false for a nil handle or out-of-range id.
func (s *Idset) Contains(id uint32) bool {
	return s.Tree().Contains(id)
}

// Count returns the population size, 0 for a nil handle.
func (s *Idset) Count() uint32 {
	return s.Tree().Count()
}

// First returns the smallest member, or InvalidID.
func (s *Idset) First() uint32 {
	return s.Tree().First()
}

// Last returns the largest member, or InvalidID.
func (s *Idset) Last() uint32 {
	return s.Tree().Last()
}

// Next returns the smallest member strictly greater than prev, or
// InvalidID.
func (s *Idset) Next(prev uint32) uint32 {
	return s.Tree().Next(prev)
}

// Copy returns an independent deep copy; copying a nil handle yields nil.
func (s *Idset) Copy() *Idset {
	if s == nil {
		return nil
	}
	return &Idset{tree: s.tree.Copy()}
}

// Equal reports whether a and b contain the same members regardless of
// capacity. A nil idset is never equal to anything, including another
// nil idset.
func Equal(a, b *Idset) bool {
	if a == nil || b == nil {
		return false
	}
	return EqualBitTree(a.tree, b.tree)
}

