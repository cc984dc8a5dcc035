package link_test

import (
	"testing"
	"time"

	"github.com/binary1248/sfnul-go/address"
	"github.com/binary1248/sfnul-go/link"
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

func loopback() address.IpAddress {
	a, err := address.FromString("127.0.0.1")
	if err != nil {
		panic(err)
	}
	return a
}

func connectedPair(t *testing.T, pool *reactor.Pool) (*tcp.Socket, *tcp.Socket) {
	t.Helper()
	buffers := config.DefaultBuffers()

	ln := tcp.NewListener(pool, nil, buffers)
	t.Cleanup(func() { _ = ln.Close() })

	accepted := make(chan *tcp.Socket, 1)
	if err := ln.Listen(address.Endpoint{Address: loopback(), Port: 0}, 0, func(s *tcp.Socket) {
		accepted <- s
	}); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	client := tcp.New(pool, nil, buffers)
	connected := make(chan error, 1)
	client.Connect(ln.Endpoint(), func(err error) { connected <- err })
	if err := <-connected; err != nil {
		t.Fatalf("Connect: %v", err)
	}

	var server *tcp.Socket
	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
	return client, server
}

func TestSendReceiveSingleStream(t *testing.T) {
	pool := newPool(t)
	clientT, serverT := connectedPair(t, pool)

	a := link.New(pool, nil, clientT)
	b := link.New(pool, nil, serverT)
	defer a.Close()
	defer b.Close()

	if ok := a.Send(5, []byte("hello stream 5")); !ok {
		t.Fatal("Send rejected")
	}

	deadline := time.Now().Add(2 * time.Second)
	buf := make([]byte, 64)
	var n int
	for time.Now().Before(deadline) {
		n = b.Receive(5, buf)
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if string(buf[:n]) != "hello stream 5" {
		t.Fatalf("Receive(5) = %q, want %q", buf[:n], "hello stream 5")
	}
}

func TestStreamsDoNotCrossDeliver(t *testing.T) {
	pool := newPool(t)
	clientT, serverT := connectedPair(t, pool)

	a := link.New(pool, nil, clientT)
	b := link.New(pool, nil, serverT)
	defer a.Close()
	defer b.Close()

	if ok := a.Send(1, []byte("for stream one")); !ok {
		t.Fatal("Send(1) rejected")
	}
	if ok := a.Send(2, []byte("for stream two")); !ok {
		t.Fatal("Send(2) rejected")
	}

	deadline := time.Now().Add(2 * time.Second)
	var gotOne, gotTwo bool
	buf := make([]byte, 64)
	for time.Now().Before(deadline) && !(gotOne && gotTwo) {
		if !gotOne {
			if n := b.Receive(1, buf); n > 0 {
				if string(buf[:n]) != "for stream one" {
					t.Fatalf("Receive(1) = %q", buf[:n])
				}
				gotOne = true
			}
		}
		if !gotTwo {
			if n := b.Receive(2, buf); n > 0 {
				if string(buf[:n]) != "for stream two" {
					t.Fatalf("Receive(2) = %q", buf[:n])
				}
				gotTwo = true
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !gotOne || !gotTwo {
		t.Fatalf("did not receive both streams: one=%v two=%v", gotOne, gotTwo)
	}
}

func TestSendMessageFraming(t *testing.T) {
	pool := newPool(t)
	clientT, serverT := connectedPair(t, pool)

	a := link.New(pool, nil, clientT)
	b := link.New(pool, nil, serverT)
	defer a.Close()
	defer b.Close()

	if ok := a.SendMessage(link.SyncStreamID, message.New([]byte("payload")...)); !ok {
		t.Fatal("SendMessage rejected")
	}

	deadline := time.Now().Add(2 * time.Second)
	var m *message.Message
	var ok bool
	for time.Now().Before(deadline) {
		m, ok = b.ReceiveMessage(link.SyncStreamID)
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
}

func TestLargePayloadIsChunkedAndReassembled(t *testing.T) {
	pool := newPool(t)
	clientT, serverT := connectedPair(t, pool)

	a := link.New(pool, nil, clientT)
	b := link.New(pool, nil, serverT)
	defer a.Close()
	defer b.Close()

	payload := make([]byte, link.MaxSegmentPayload*2+123)
	for i := range payload {
		payload[i] = byte(i)
	}
	if ok := a.Send(9, payload); !ok {
		t.Fatal("Send rejected")
	}

	deadline := time.Now().Add(5 * time.Second)
	got := make([]byte, 0, len(payload))
	buf := make([]byte, 8192)
	for time.Now().Before(deadline) && len(got) < len(payload) {
		n := b.Receive(9, buf)
		if n > 0 {
			got = append(got, buf[:n]...)
			continue
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(got) != len(payload) {
		t.Fatalf("reassembled %d bytes, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("byte %d mismatch: got %d, want %d", i, got[i], payload[i])
		}
	}
}

func TestIsApplicationStream(t *testing.T) {
	if !link.IsApplicationStream(0) {
		t.Fatal("stream 0 should be an application stream")
	}
	if link.IsApplicationStream(link.SyncStreamID) {
		t.Fatal("the synchronizer's reserved stream id must not read as an application stream")
	}
}
