package certificates_test

import (
	"testing"

	"github.com/binary1248/sfnul-go/certificates"
)

func TestValidateRejectsBadServerName(t *testing.T) {
	c := &certificates.Config{ServerName: "not a hostname!!"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected validation error for malformed server name")
	}
}

func TestValidateAcceptsEmptyConfig(t *testing.T) {
	c := &certificates.Config{}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestBuildDefersWithNoCertsOnServer(t *testing.T) {
	c := &certificates.Config{}
	tlsCfg, err := c.Build(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tlsCfg != nil {
		t.Fatal("expected nil *tls.Config when server has no certificates yet (deferred selection)")
	}
}

func TestBuildDefaultsVersions(t *testing.T) {
	c := &certificates.Config{}
	tlsCfg, err := c.Build(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tlsCfg.MinVersion == 0 || tlsCfg.MaxVersion == 0 {
		t.Fatal("expected default min/max TLS versions to be set")
	}
}
