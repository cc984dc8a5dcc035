package udp_test

import (
	"testing"
	"time"

	"github.com/binary1248/sfnul-go/address"
	"github.com/binary1248/sfnul-go/reactor"
	"github.com/binary1248/sfnul-go/socket/config"
	"github.com/binary1248/sfnul-go/socket/udp"
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

func TestSendToReceiveFromRoundtrip(t *testing.T) {
	pool := newPool(t)
	buffers := config.DefaultBuffers()

	server := udp.New(pool, nil, buffers)
	if err := server.Bind(address.Endpoint{Address: loopback(), Port: 0}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer server.Close()

	client := udp.New(pool, nil, buffers)
	if err := client.Bind(address.Endpoint{Address: loopback(), Port: 0}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer client.Close()

	if ok := client.SendTo([]byte("ping"), server.LocalEndpoint()); !ok {
		t.Fatal("SendTo rejected")
	}

	deadline := time.Now().Add(2 * time.Second)
	var peers []address.Endpoint
	for time.Now().Before(deadline) {
		peers = server.PendingEndpoints()
		if len(peers) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(peers) != 1 {
		t.Fatalf("expected exactly one pending peer, got %d", len(peers))
	}

	buf := make([]byte, 16)
	n := server.ReceiveFrom(buf, peers[0])
	if string(buf[:n]) != "ping" {
		t.Fatalf("ReceiveFrom = %q, want %q", buf[:n], "ping")
	}

	if remaining := server.BytesToReceive(peers[0]); remaining != 0 {
		t.Fatalf("expected queue drained, got %d bytes remaining", remaining)
	}
}

func TestDistinctPeersQueueIndependently(t *testing.T) {
	pool := newPool(t)
	buffers := config.DefaultBuffers()

	server := udp.New(pool, nil, buffers)
	if err := server.Bind(address.Endpoint{Address: loopback(), Port: 0}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer server.Close()

	a := udp.New(pool, nil, buffers)
	if err := a.Bind(address.Endpoint{Address: loopback(), Port: 0}); err != nil {
		t.Fatalf("Bind a: %v", err)
	}
	defer a.Close()

	b := udp.New(pool, nil, buffers)
	if err := b.Bind(address.Endpoint{Address: loopback(), Port: 0}); err != nil {
		t.Fatalf("Bind b: %v", err)
	}
	defer b.Close()

	a.SendTo([]byte("from-a"), server.LocalEndpoint())
	b.SendTo([]byte("from-b"), server.LocalEndpoint())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(server.PendingEndpoints()) == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := len(server.PendingEndpoints()); got != 2 {
		t.Fatalf("expected 2 distinct peers, got %d", got)
	}
}

func TestClearBuffersDropsAllPeers(t *testing.T) {
	pool := newPool(t)
	buffers := config.DefaultBuffers()

	server := udp.New(pool, nil, buffers)
	if err := server.Bind(address.Endpoint{Address: loopback(), Port: 0}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer server.Close()

	client := udp.New(pool, nil, buffers)
	if err := client.Bind(address.Endpoint{Address: loopback(), Port: 0}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer client.Close()

	client.SendTo([]byte("x"), server.LocalEndpoint())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(server.PendingEndpoints()) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	server.ClearBuffers()
	if got := len(server.PendingEndpoints()); got != 0 {
		t.Fatalf("expected no pending peers after ClearBuffers, got %d", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	pool := newPool(t)
	s := udp.New(pool, nil, config.DefaultBuffers())
	if err := s.Bind(address.Endpoint{Address: loopback(), Port: 0}); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}
}
