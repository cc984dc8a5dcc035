package tcp_test

import (
	"testing"
	"time"

	"github.com/binary1248/sfnul-go/address"
	"github.com/binary1248/sfnul-go/message"
	"github.com/binary1248/sfnul-go/reactor"
	"github.com/binary1248/sfnul-go/socket/config"
	"github.com/binary1248/sfnul-go/socket/tcp"
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

func TestConnectSendReceiveRoundtrip(t *testing.T) {
	pool := newPool(t)
	buffers := config.DefaultBuffers()

	l := tcp.NewListener(pool, nil, buffers)
	defer l.Close()

	accepted := make(chan *tcp.Socket, 1)
	if err := l.Listen(address.Endpoint{Address: loopback(), Port: 0}, 0, func(s *tcp.Socket) {
		accepted <- s
	}); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	client := tcp.New(pool, nil, buffers)
	connected := make(chan error, 1)
	client.Connect(l.Endpoint(), func(err error) { connected <- err })

	select {
	case err := <-connected:
		if err != nil {
			t.Fatalf("Connect: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for connect")
	}

	var server *tcp.Socket
	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}

	if ok := client.Send([]byte("hello")); !ok {
		t.Fatal("Send rejected")
	}

	deadline := time.Now().Add(2 * time.Second)
	buf := make([]byte, 16)
	var n int
	for time.Now().Before(deadline) {
		n = server.Receive(buf)
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("Receive = %q, want %q", buf[:n], "hello")
	}

	_ = client.Close()
	_ = server.Close()
}

func TestSendMessageFraming(t *testing.T) {
	pool := newPool(t)
	buffers := config.DefaultBuffers()

	l := tcp.NewListener(pool, nil, buffers)
	defer l.Close()

	accepted := make(chan *tcp.Socket, 1)
	if err := l.Listen(address.Endpoint{Address: loopback(), Port: 0}, 0, func(s *tcp.Socket) {
		accepted <- s
	}); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	client := tcp.New(pool, nil, buffers)
	connected := make(chan error, 1)
	client.Connect(l.Endpoint(), func(err error) { connected <- err })
	if err := <-connected; err != nil {
		t.Fatalf("Connect: %v", err)
	}
	server := <-accepted

	if ok := client.SendMessage(message.New([]byte("payload")...)); !ok {
		t.Fatal("SendMessage rejected")
	}

	deadline := time.Now().Add(2 * time.Second)
	var m *message.Message
	var ok bool
	for time.Now().Before(deadline) {
		m, ok = server.ReceiveMessage()
		if ok {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !ok {
		t.Fatal("never received a full frame")
	}
	if string(m.Bytes()) != "payload" {
		t.Fatalf("ReceiveMessage payload = %q, want %q", m.Bytes(), "payload")
	}

	_ = client.Close()
	_ = server.Close()
}

func TestSendRejectedOnHardLimit(t *testing.T) {
	pool := newPool(t)
	buffers := config.Buffers{SendSoftLimit: 4, SendHardLimit: 8, ReceiveSoftLimit: 64, ReceiveHardLimit: 128}

	s := tcp.New(pool, nil, buffers)
	if ok := s.Send(make([]byte, 9)); ok {
		t.Fatal("expected Send to reject a payload larger than the hard limit")
	}
}

func TestReceiveBackpressureSuspendsAndRearmsWithoutLoss(t *testing.T) {
	pool := newPool(t)
	buffers := config.Buffers{SendSoftLimit: 1 << 20, SendHardLimit: 1 << 20, ReceiveSoftLimit: 4, ReceiveHardLimit: 8}

	l := tcp.NewListener(pool, nil, buffers)
	defer l.Close()

	accepted := make(chan *tcp.Socket, 1)
	if err := l.Listen(address.Endpoint{Address: loopback(), Port: 0}, 0, func(s *tcp.Socket) {
		accepted <- s
	}); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	client := tcp.New(pool, nil, buffers)
	connected := make(chan error, 1)
	client.Connect(l.Endpoint(), func(err error) { connected <- err })
	if err := <-connected; err != nil {
		t.Fatalf("Connect: %v", err)
	}
	server := <-accepted
	defer client.Close()
	defer server.Close()

	const total = 256
	payload := make([]byte, total)
	for i := range payload {
		payload[i] = byte(i)
	}
	if ok := client.Send(payload); !ok {
		t.Fatal("Send rejected")
	}

	got := make([]byte, 0, total)
	buf := make([]byte, 16)
	deadline := time.Now().Add(5 * time.Second)
	for len(got) < total && time.Now().Before(deadline) {
		if n := server.Receive(buf); n > 0 {
			got = append(got, buf[:n]...)
			continue
		}
		time.Sleep(5 * time.Millisecond)
	}

	if len(got) != total {
		t.Fatalf("received %d bytes, want %d (receive queue never re-armed past the hard limit)", len(got), total)
	}
	for i := range got {
		if got[i] != payload[i] {
			t.Fatalf("byte %d = %d, want %d: receive queue corrupted or reordered under backpressure", i, got[i], payload[i])
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	pool := newPool(t)
	s := tcp.New(pool, nil, config.DefaultBuffers())
	if err := s.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}
}

func loopback() address.IpAddress {
	a, err := address.FromString("127.0.0.1")
	if err != nil {
		panic(err)
	}
	return a
}
