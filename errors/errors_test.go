package errors_test

import (
	"errors"
	"testing"

	liberr "github.com/binary1248/sfnul-go/errors"
)

func TestCodeErrorMessage(t *testing.T) {
	tests := []struct {
		nam string
		cod liberr.CodeError
		exp string
	}{
		{"unknown", liberr.UnknownError, liberr.UnknownMessage},
		{"remote closed", liberr.KindRemoteClosed, "remote peer closed the connection"},
		{"protocol violation", liberr.KindProtocolViolation, "protocol violation"},
	}

	for _, tc := range tests {
		t.Run(tc.nam, func(t *testing.T) {
			if got := tc.cod.Message(); got != tc.exp {
				t.Errorf("Message() = %q, want %q", got, tc.exp)
			}
		})
	}
}

func TestErrorHierarchy(t *testing.T) {
	root := errors.New("dial tcp: connection refused")
	e := liberr.KindConnectionReset.Error(root)

	if !e.HasParent() {
		t.Fatal("expected a parent error")
	}
	if !e.HasError(root) {
		t.Fatal("expected HasError to find the wrapped root cause")
	}
	if !e.IsCode(liberr.KindConnectionReset) {
		t.Fatal("expected IsCode to match")
	}
	if e.GetCode() != liberr.KindConnectionReset {
		t.Fatalf("GetCode() = %v, want %v", e.GetCode(), liberr.KindConnectionReset)
	}
}

func TestIfErrorNilWhenNoParents(t *testing.T) {
	if e := liberr.IfError(0, "wrap"); e != nil {
		t.Fatalf("expected nil, got %v", e)
	}
	if e := liberr.IfError(0, "wrap", errors.New("x")); e == nil {
		t.Fatal("expected non-nil when a parent is given")
	}
}

func TestAddAndMap(t *testing.T) {
	e := liberr.New(1, "base")
	e.Add(errors.New("p1"), errors.New("p2"))

	count := 0
	e.Map(func(error) bool {
		count++
		return true
	})

	if count != 3 {
		t.Fatalf("expected 3 nodes visited (self + 2 parents), got %d", count)
	}
}
