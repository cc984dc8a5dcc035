package atomic_test

import (
	"testing"

	libatm "github.com/binary1248/sfnul-go/atomic"
)

func TestBoolSetTrueMonotonic(t *testing.T) {
	var b libatm.Bool

	if b.Load() {
		t.Fatal("expected zero value false")
	}
	if !b.SetTrue() {
		t.Fatal("first SetTrue should report a transition")
	}
	if b.SetTrue() {
		t.Fatal("second SetTrue should report no transition")
	}
	if !b.Load() {
		t.Fatal("expected true after SetTrue")
	}
}

func TestInt32Add(t *testing.T) {
	var i libatm.Int32
	i.Store(10)
	if got := i.Add(5); got != 15 {
		t.Fatalf("Add(5) = %d, want 15", got)
	}
	if got := i.Add(-20); got != -5 {
		t.Fatalf("Add(-20) = %d, want -5", got)
	}
}

type point struct{ X, Y int }

func TestValueGeneric(t *testing.T) {
	var v libatm.Value[point]

	if got := v.Load(); got != (point{}) {
		t.Fatalf("expected zero value, got %+v", got)
	}

	v.Store(point{X: 1, Y: 2})
	if got := v.Load(); got != (point{X: 1, Y: 2}) {
		t.Fatalf("got %+v, want {1 2}", got)
	}
}
