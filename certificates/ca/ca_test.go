package ca_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/binary1248/sfnul-go/certificates/ca"
)

// selfSignedCA returns a self-signed certificate PEM block. Test fixture
// only; this module's own code never generates certificates.
func selfSignedCA(t *testing.T, commonName string) ca.Cert {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		IsCA:         true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}
	return ca.Cert(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

func TestPoolAddsEveryValidCert(t *testing.T) {
	certs := []ca.Cert{selfSignedCA(t, "root-a"), selfSignedCA(t, "root-b")}
	pool := ca.Pool(certs)
	if pool == nil {
		t.Fatal("Pool returned nil")
	}
	if len(pool.Subjects()) != 2 { //nolint:staticcheck // Subjects is deprecated but still the simplest count here.
		t.Fatalf("pool has %d subjects, want 2", len(pool.Subjects()))
	}
}

func TestAppendToRejectsEmpty(t *testing.T) {
	var empty ca.Cert
	pool := x509.NewCertPool()
	if empty.AppendTo(pool) {
		t.Fatal("AppendTo on an empty Cert should report false")
	}
}

func TestWatchDirLoadsInitialBundleAndReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	first := selfSignedCA(t, "initial")
	if err := os.WriteFile(filepath.Join(dir, "root.pem"), []byte(first), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	updates := make(chan []ca.Cert, 4)
	w, err := ca.WatchDir(dir, nil, func(certs []ca.Cert) { updates <- certs })
	if err != nil {
		t.Fatalf("WatchDir: %v", err)
	}
	defer w.Close()

	select {
	case got := <-updates:
		if len(got) != 1 {
			t.Fatalf("initial load has %d certs, want 1", len(got))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial load")
	}

	second := selfSignedCA(t, "rotated")
	if err := os.WriteFile(filepath.Join(dir, "rotated.pem"), []byte(second), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case got := <-updates:
		if len(got) != 2 {
			t.Fatalf("reloaded bundle has %d certs, want 2", len(got))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload after file creation")
	}
}

func TestWatchDirIgnoresNonCertFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a cert"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	updates := make(chan []ca.Cert, 1)
	w, err := ca.WatchDir(dir, nil, func(certs []ca.Cert) { updates <- certs })
	if err != nil {
		t.Fatalf("WatchDir: %v", err)
	}
	defer w.Close()

	select {
	case got := <-updates:
		if len(got) != 0 {
			t.Fatalf("initial load has %d certs, want 0", len(got))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial load")
	}
}
