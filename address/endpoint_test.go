package address_test

import (
	"testing"

	"github.com/binary1248/sfnul-go/address"
)

func TestParseEndpointIPv4(t *testing.T) {
	e, err := address.ParseEndpoint("127.0.0.1:8080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Port != 8080 {
		t.Fatalf("Port = %d, want 8080", e.Port)
	}
	if got, want := e.String(), "127.0.0.1:8080"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestParseEndpointIPv6(t *testing.T) {
	e, err := address.ParseEndpoint("[::1]:9000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := e.String(), "[::1]:9000"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestParseEndpointRejectsHostname(t *testing.T) {
	if _, err := address.ParseEndpoint("example.com:80"); err == nil {
		t.Fatal("expected error for hostname without resolution")
	}
}

func TestEndpointEqual(t *testing.T) {
	a, _ := address.ParseEndpoint("10.0.0.1:1234")
	b, _ := address.ParseEndpoint("10.0.0.1:1234")
	c, _ := address.ParseEndpoint("10.0.0.1:1235")

	if !a.Equal(b) {
		t.Fatal("expected equal endpoints to compare equal")
	}
	if a.Equal(c) {
		t.Fatal("expected endpoints with different ports to compare unequal")
	}
}
