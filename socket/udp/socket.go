/*
 * MIT License
 *
 * Copyright (c) 2026 sfnul-go contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package udp implements a reactor-driven UDP socket (spec §4, C3):
// connectionless send_to/receive_from with a per-peer receive queue and an
// aggregate hard threshold across all peers, since a single misbehaving
// peer must not be able to starve every other peer's queue.
package udp

import (
	"net"
	"sync"

	"github.com/binary1248/sfnul-go/address"
	liberr "github.com/binary1248/sfnul-go/errors"
	"github.com/binary1248/sfnul-go/internal/metrics"
	"github.com/binary1248/sfnul-go/logger"
	"github.com/binary1248/sfnul-go/message"
	"github.com/binary1248/sfnul-go/reactor"
	"github.com/binary1248/sfnul-go/socket"
	"github.com/binary1248/sfnul-go/socket/config"
)

// Socket is a bound, connectionless UDP endpoint. Datagrams from distinct
// peers queue independently; ReceiveFrom drains one peer's queue at a time.
type Socket struct {
	pool   *reactor.Pool
	strand *reactor.Strand
	alive  *reactor.Alive
	log    logger.Logger

	buffers config.Buffers

	mu        sync.Mutex
	conn      *net.UDPConn
	localAddr address.Endpoint
	closed    bool

	pending   int // total bytes across every peer's queue
	receiveBy map[address.Endpoint]*message.Message
}

// New returns an unbound Socket ready for Bind.
func New(pool *reactor.Pool, log logger.Logger, buffers config.Buffers) *Socket {
	if log == nil {
		log = logger.Discard
	}
	return &Socket{
		pool:      pool,
		strand:    pool.NewStrand(),
		alive:     reactor.NewAlive(),
		log:       log.WithFields(logger.Fields{"component": "socket/udp"}),
		buffers:   buffers,
		receiveBy: make(map[address.Endpoint]*message.Message),
	}
}

// Bind opens the socket on endpoint and starts the receive loop.
func (s *Socket) Bind(endpoint address.Endpoint) liberr.Error {
	conn, err := net.ListenUDP("udp", endpoint.ToUDPAddr())
	if err != nil {
		return liberr.KindInvalidArgument.Error(err)
	}

	s.mu.Lock()
	s.conn = conn
	s.localAddr = udpAddrToEndpoint(conn.LocalAddr())
	s.mu.Unlock()

	s.startReceiver()
	return nil
}

func udpAddrToEndpoint(a net.Addr) address.Endpoint {
	udpAddr, ok := a.(*net.UDPAddr)
	if !ok {
		return address.Endpoint{}
	}
	return address.NewEndpoint(address.FromIP(udpAddr.IP), uint16(udpAddr.Port))
}

func (s *Socket) startReceiver() {
	go func() {
		buf := make([]byte, socket.DefaultBufferSize)
		for {
			n, from, err := s.conn.ReadFromUDP(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				peer := udpAddrToEndpoint(from)
				s.strand.Post(reactor.Guard(s.alive, func() {
					s.mu.Lock()
					if s.pending+len(chunk) <= s.buffers.ReceiveHardLimit {
						q, ok := s.receiveBy[peer]
						if !ok {
							q = message.New()
							s.receiveBy[peer] = q
						}
						q.Append(chunk)
						s.pending += len(chunk)
					}
					total := s.pending
					s.mu.Unlock()
					metrics.QueuedBytes.WithLabelValues("udp", "receive").Set(float64(total))
				}))
			}
			if err != nil {
				return
			}
		}
	}()
}

// SendTo transmits a datagram to endpoint. Unlike TCP's Send, this is a
// single syscall per call rather than a queued stream: UDP has no
// byte-stream ordering to preserve across calls, so there is no send
// queue to report via BytesToSend.
func (s *Socket) SendTo(data []byte, endpoint address.Endpoint) bool {
	s.mu.Lock()
	conn := s.conn
	closed := s.closed
	s.mu.Unlock()
	if closed || conn == nil {
		return false
	}
	_, err := conn.WriteToUDP(data, endpoint.ToUDPAddr())
	return err == nil
}

// ReceiveFrom copies up to len(buf) bytes out of endpoint's queue.
func (s *Socket) ReceiveFrom(buf []byte, endpoint address.Endpoint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.receiveBy[endpoint]
	if !ok {
		return 0
	}
	n := len(buf)
	if avail := int(q.Size()); n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}
	copy(buf, q.GetFront(n))
	q.PopFront(n)
	s.pending -= n
	if q.Size() == 0 {
		delete(s.receiveBy, endpoint)
	}
	return n
}

// BytesToReceive reports how much data is queued for one peer.
func (s *Socket) BytesToReceive(endpoint address.Endpoint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.receiveBy[endpoint]
	if !ok {
		return 0
	}
	return int(q.Size())
}

// PendingEndpoints returns every peer with data currently queued.
func (s *Socket) PendingEndpoints() []address.Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]address.Endpoint, 0, len(s.receiveBy))
	for ep := range s.receiveBy {
		out = append(out, ep)
	}
	return out
}

// ClearBuffers drops every peer's queued data.
func (s *Socket) ClearBuffers() {
	s.mu.Lock()
	s.receiveBy = make(map[address.Endpoint]*message.Message)
	s.pending = 0
	s.mu.Unlock()
}

// Close releases the socket. Safe to call more than once.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	s.mu.Unlock()

	s.alive.Clear()
	s.strand.Close()

	if conn == nil {
		return nil
	}
	return socket.ErrorFilter(conn.Close())
}

// LocalEndpoint returns the bound local endpoint.
func (s *Socket) LocalEndpoint() address.Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localAddr
}
