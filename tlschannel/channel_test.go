package tlschannel_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/binary1248/sfnul-go/address"
	"github.com/binary1248/sfnul-go/certificates"
	"github.com/binary1248/sfnul-go/certificates/certs"
	"github.com/binary1248/sfnul-go/reactor"
	"github.com/binary1248/sfnul-go/socket/config"
	"github.com/binary1248/sfnul-go/socket/tcp"
	"github.com/binary1248/sfnul-go/tlschannel"
)

func newPool(t *testing.T) *reactor.Pool {
	t.Helper()
	p := reactor.New(nil)
	if err := p.Start(4); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = p.Stop() })
	return p
}

func loopback() address.IpAddress {
	a, err := address.FromString("127.0.0.1")
	if err != nil {
		panic(err)
	}
	return a
}

// selfSignedPair generates a throwaway self-signed certificate/key pair for
// test fixtures only; this module's own code never generates certificates.
func selfSignedPair(t *testing.T) certs.Certif {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).Add(100 * 365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("MarshalECPrivateKey: %v", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	return certs.Certif{Cert: string(certPEM), Key: string(keyPEM)}
}

func TestHandshakeAndRoundtrip(t *testing.T) {
	pool := newPool(t)
	pair := selfSignedPair(t)

	ln := tcp.NewListener(pool, nil, config.DefaultBuffers())
	defer ln.Close()

	accepted := make(chan *tcp.Socket, 1)
	if err := ln.Listen(address.Endpoint{Address: loopback(), Port: 0}, 0, func(s *tcp.Socket) {
		accepted <- s
	}); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	clientTCP := tcp.New(pool, nil, config.DefaultBuffers())
	dialErr := make(chan error, 1)
	clientTCP.Connect(ln.Endpoint(), func(err error) { dialErr <- err })
	if err := <-dialErr; err != nil {
		t.Fatalf("Connect: %v", err)
	}
	serverTCP := <-accepted

	serverCfg := &certificates.Config{Certs: []certs.Certif{pair}}
	server := tlschannel.New(pool, nil, serverTCP, serverCfg, true, tlschannel.VerifyNone)
	serverDone := make(chan error, 1)
	server.Accept(func(err error) { serverDone <- err })

	clientCfg := &certificates.Config{ServerName: "localhost"}
	client := tlschannel.New(pool, nil, clientTCP, clientCfg, false, tlschannel.VerifyNone)
	clientDone := make(chan error, 1)
	client.Accept(func(err error) { clientDone <- err })

	if err := <-serverDone; err != nil {
		t.Fatalf("server handshake: %v", err)
	}
	if err := <-clientDone; err != nil {
		t.Fatalf("client handshake: %v", err)
	}

	if got := server.State(); got != tlschannel.StateEstablished {
		t.Fatalf("server state = %v, want Established", got)
	}
	if got := client.State(); got != tlschannel.StateEstablished {
		t.Fatalf("client state = %v, want Established", got)
	}

	if ok := client.Send([]byte("secret")); !ok {
		t.Fatal("Send rejected")
	}

	deadline := time.Now().Add(3 * time.Second)
	buf := make([]byte, 16)
	var n int
	for time.Now().Before(deadline) {
		n = server.Receive(buf)
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if string(buf[:n]) != "secret" {
		t.Fatalf("Receive = %q, want %q", buf[:n], "secret")
	}

	_ = client.Close()
	_ = server.Close()
}

func TestSendDuringHandshakeIsBufferedAndFlushedOnceEstablished(t *testing.T) {
	pool := newPool(t)
	pair := selfSignedPair(t)

	ln := tcp.NewListener(pool, nil, config.DefaultBuffers())
	defer ln.Close()

	accepted := make(chan *tcp.Socket, 1)
	if err := ln.Listen(address.Endpoint{Address: loopback(), Port: 0}, 0, func(s *tcp.Socket) {
		accepted <- s
	}); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	clientTCP := tcp.New(pool, nil, config.DefaultBuffers())
	dialErr := make(chan error, 1)
	clientTCP.Connect(ln.Endpoint(), func(err error) { dialErr <- err })
	if err := <-dialErr; err != nil {
		t.Fatalf("Connect: %v", err)
	}
	serverTCP := <-accepted

	// The server channel has no certificate yet, so its handshake stalls
	// in StateHandshaking (the deferred-selection case exercised below).
	server := tlschannel.New(pool, nil, serverTCP, &certificates.Config{}, true, tlschannel.VerifyNone)
	serverDone := make(chan error, 1)
	server.Accept(func(err error) { serverDone <- err })

	client := tlschannel.New(pool, nil, clientTCP, &certificates.Config{ServerName: "localhost"}, false, tlschannel.VerifyNone)
	clientDone := make(chan error, 1)
	client.Accept(func(err error) { clientDone <- err })

	if got := client.State(); got != tlschannel.StateHandshaking {
		t.Fatalf("expected client to still be Handshaking, got %v", got)
	}

	// Send before Established must be accepted, not rejected, per spec
	// §4.6: plaintext offered during the handshake is buffered and flushed
	// once the channel reaches StateEstablished.
	if ok := client.Send([]byte("buffered")); !ok {
		t.Fatal("Send during Handshaking was rejected; it must be buffered instead")
	}

	if err := server.SetCertificateKeyPair(pair.Cert, pair.Key); err != nil {
		t.Fatalf("SetCertificateKeyPair: %v", err)
	}
	if err := <-serverDone; err != nil {
		t.Fatalf("server handshake: %v", err)
	}
	if err := <-clientDone; err != nil {
		t.Fatalf("client handshake: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	buf := make([]byte, 16)
	var n int
	for time.Now().Before(deadline) {
		n = server.Receive(buf)
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if string(buf[:n]) != "buffered" {
		t.Fatalf("Receive = %q, want the bytes sent during handshake, %q", buf[:n], "buffered")
	}

	_ = client.Close()
	_ = server.Close()
}

func TestDeferredCertificateSelection(t *testing.T) {
	pool := newPool(t)
	pair := selfSignedPair(t)

	ln := tcp.NewListener(pool, nil, config.DefaultBuffers())
	defer ln.Close()

	accepted := make(chan *tcp.Socket, 1)
	if err := ln.Listen(address.Endpoint{Address: loopback(), Port: 0}, 0, func(s *tcp.Socket) {
		accepted <- s
	}); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	clientTCP := tcp.New(pool, nil, config.DefaultBuffers())
	dialErr := make(chan error, 1)
	clientTCP.Connect(ln.Endpoint(), func(err error) { dialErr <- err })
	if err := <-dialErr; err != nil {
		t.Fatalf("Connect: %v", err)
	}
	serverTCP := <-accepted

	server := tlschannel.New(pool, nil, serverTCP, &certificates.Config{}, true, tlschannel.VerifyNone)
	serverDone := make(chan error, 1)
	server.Accept(func(err error) { serverDone <- err })

	if got := server.State(); got != tlschannel.StateHandshaking {
		t.Fatalf("expected Handshaking while certificate is unset, got %v", got)
	}

	client := tlschannel.New(pool, nil, clientTCP, &certificates.Config{ServerName: "localhost"}, false, tlschannel.VerifyNone)
	clientDone := make(chan error, 1)
	client.Accept(func(err error) { clientDone <- err })

	time.Sleep(20 * time.Millisecond)
	select {
	case <-serverDone:
		t.Fatal("server handshake should not complete before a certificate is supplied")
	default:
	}

	if err := server.SetCertificateKeyPair(pair.Cert, pair.Key); err != nil {
		t.Fatalf("SetCertificateKeyPair: %v", err)
	}

	if err := <-serverDone; err != nil {
		t.Fatalf("server handshake: %v", err)
	}
	if err := <-clientDone; err != nil {
		t.Fatalf("client handshake: %v", err)
	}

	_ = client.Close()
	_ = server.Close()
}
