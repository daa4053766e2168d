package idset_test

import (
	"testing"

	"github.com/flux-framework/flux-broker-go/idset"
)

func TestIdsetNilSemantics(t *testing.T) {
	var s *idset.Idset
	if s.Count() != 0 {
		t.Errorf("nil Idset Count() = %d, want 0", s.Count())
	}
	if s.Contains(0) {
		t.Error("nil Idset Contains(0) = true, want false")
	}
	if s.First() != idset.InvalidID {
		t.Errorf("nil Idset First() = %d, want InvalidID", s.First())
	}
	if s.Copy() != nil {
		t.Error("nil Idset Copy() != nil, want nil")
	}
	if err := s.Insert(1); err == nil {
		t.Error("nil Idset Insert: expected error, got nil")
	}
	if err := s.Remove(1); err != nil {
		t.Errorf("nil Idset Remove: expected nil error, got %v", err)
	}
}

func TestIdsetEqualNeverTrueForNil(t *testing.T) {
	s := idset.New(64, false)
	if idset.Equal(nil, nil) {
		t.Error("Equal(nil, nil) = true, want false")
	}
	if idset.Equal(s, nil) || idset.Equal(nil, s) {
		t.Error("Equal with one nil operand = true, want false")
	}
}

func TestIdsetEqualByMembership(t *testing.T) {
	a := idset.New(64, false)
	b := idset.New(4096, true)
	for _, id := range []uint32{2, 4, 6} {
		_ = a.Insert(id)
		_ = b.Insert(id)
	}
	if !idset.Equal(a, b) {
		t.Error("Equal() of idsets with identical membership = false, want true")
	}
	_ = b.Insert(8)
	if idset.Equal(a, b) {
		t.Error("Equal() after diverging membership = true, want false")
	}
}

func TestIdsetCopyIndependence(t *testing.T) {
	a := idset.New(64, false)
	_ = a.Insert(1)
	b := a.Copy()
	_ = a.Insert(2)
	if b.Contains(2) {
		t.Error("copy observed a mutation made after Copy()")
	}
}
