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

// Package tcp implements a reactor-driven TCP socket (spec §4, C5) and its
// listener (C4): Connect/Send/Receive/Shutdown/Close plus the bounded
// send/receive queues and half-close state machine spec §6 and §9 describe.
// Socket satisfies transport.Transport so tlschannel and link are generic
// over it.
package tcp

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

// Socket is a single TCP connection, either dialed via Connect or produced
// by a Listener's accept loop. All state transitions happen on the
// socket's strand; the background reader/writer goroutines only perform
// the blocking syscalls and hand their outcome back through Post.
type Socket struct {
	pool   *reactor.Pool
	strand *reactor.Strand
	alive  *reactor.Alive
	log    logger.Logger

	buffers   config.Buffers
	linger    int
	keepAlive bool

	mu           sync.Mutex
	conn         *net.TCPConn
	connected    bool
	closed       bool
	localFinReq  bool
	localFinSent bool
	remoteFin    bool
	sendQueue    []byte
	sending      bool
	recvQueue    *message.Message
	recvRoom     *sync.Cond

	localAddr  address.Endpoint
	remoteAddr address.Endpoint
}

// New returns an unconnected Socket ready for Connect.
func New(pool *reactor.Pool, log logger.Logger, buffers config.Buffers) *Socket {
	if log == nil {
		log = logger.Discard
	}
	s := &Socket{
		pool:      pool,
		strand:    pool.NewStrand(),
		alive:     reactor.NewAlive(),
		log:       log.WithFields(logger.Fields{"component": "socket/tcp"}),
		buffers:   buffers,
		recvQueue: message.New(),
	}
	s.recvRoom = sync.NewCond(&s.mu)
	return s
}

// fromConn wraps an already-accepted connection, used by Listener.
func fromConn(pool *reactor.Pool, log logger.Logger, buffers config.Buffers, conn *net.TCPConn) *Socket {
	s := New(pool, log, buffers)
	s.conn = conn
	s.connected = true
	s.localAddr = tcpAddrToEndpoint(conn.LocalAddr())
	s.remoteAddr = tcpAddrToEndpoint(conn.RemoteAddr())
	s.applyOptions()
	s.startReader()
	return s
}

func tcpAddrToEndpoint(a net.Addr) address.Endpoint {
	tcpAddr, ok := a.(*net.TCPAddr)
	if !ok {
		return address.Endpoint{}
	}
	return address.NewEndpoint(address.FromIP(tcpAddr.IP), uint16(tcpAddr.Port))
}

// SetLinger configures SO_LINGER, applied at the next successful Connect or
// immediately if already connected.
func (s *Socket) SetLinger(seconds int) {
	s.mu.Lock()
	s.linger = seconds
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		_ = conn.SetLinger(seconds)
	}
}

// SetKeepAlive enables or disables TCP keep-alives, applied at the next
// successful Connect or immediately if already connected.
func (s *Socket) SetKeepAlive(on bool) {
	s.mu.Lock()
	s.keepAlive = on
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		_ = conn.SetKeepAlive(on)
	}
}

func (s *Socket) applyOptions() {
	if s.linger != 0 {
		_ = s.conn.SetLinger(s.linger)
	}
	_ = s.conn.SetKeepAlive(s.keepAlive)
}

// Connect dials endpoint asynchronously. on is invoked on the socket's
// strand once the dial completes, successfully or not.
func (s *Socket) Connect(endpoint address.Endpoint, on func(err error)) {
	go func() {
		c, err := net.DialTCP("tcp", nil, endpoint.ToTCPAddr())
		s.strand.Post(reactor.Guard(s.alive, func() {
			if err != nil {
				on(socket.ErrorFilter(err))
				return
			}
			s.mu.Lock()
			s.conn = c
			s.connected = true
			s.localAddr = tcpAddrToEndpoint(c.LocalAddr())
			s.remoteAddr = endpoint
			s.mu.Unlock()
			s.applyOptions()
			s.startReader()
			on(nil)
		}))
	}()
}

// startReader drives the blocking read syscall. Per spec §4.5, a recv is
// posted only while bytes_to_receive stays under the hard receive mark; once
// the queue reaches that mark the reader suspends rather than reading and
// discarding, so kernel-level TCP flow control (the unread socket buffer,
// and eventually a shrinking advertised window) applies the back-pressure.
// waitForReadRoom re-arms it as soon as Receive or ClearBuffers drains the
// queue back below the mark.
func (s *Socket) startReader() {
	go func() {
		buf := make([]byte, socket.DefaultBufferSize)
		for {
			room := s.waitForReadRoom()
			if room <= 0 {
				return
			}
			readLen := len(buf)
			if room < readLen {
				readLen = room
			}
			n, err := s.conn.Read(buf[:readLen])
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				s.strand.Post(reactor.Guard(s.alive, func() {
					s.mu.Lock()
					s.recvQueue.Append(chunk)
					depth := s.recvQueue.Size()
					s.mu.Unlock()
					metrics.QueuedBytes.WithLabelValues("tcp", "receive").Set(float64(depth))
				}))
			}
			if err != nil {
				s.strand.Post(reactor.Guard(s.alive, func() {
					s.mu.Lock()
					s.remoteFin = true
					s.mu.Unlock()
				}))
				return
			}
		}
	}()
}

// waitForReadRoom blocks until the receive queue has room below
// buffers.ReceiveHardLimit, returning how many bytes may be read next. It
// returns 0 once the socket is closed, telling the reader goroutine to exit.
func (s *Socket) waitForReadRoom() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		if s.closed {
			return 0
		}
		if room := s.buffers.ReceiveHardLimit - int(s.recvQueue.Size()); room > 0 {
			return room
		}
		s.recvRoom.Wait()
	}
}

// Send enqueues data for transmission, returning false if the connection is
// not established, a local shutdown was already requested, or the send
// queue's hard limit would be exceeded.
func (s *Socket) Send(data []byte) bool {
	s.mu.Lock()
	if s.closed || s.localFinReq || !s.connected {
		s.mu.Unlock()
		return false
	}
	if len(s.sendQueue)+len(data) > s.buffers.SendHardLimit {
		s.mu.Unlock()
		return false
	}
	s.sendQueue = append(s.sendQueue, data...)
	already := s.sending
	s.sending = true
	depth := len(s.sendQueue)
	s.mu.Unlock()

	metrics.QueuedBytes.WithLabelValues("tcp", "send").Set(float64(depth))
	if !already {
		go s.flushLoop()
	}
	return true
}

// SendMessage is the framed variant: a 4-byte little-endian length prefix
// ahead of the payload.
func (s *Socket) SendMessage(m *message.Message) bool {
	return s.Send(message.Frame(m.Bytes()))
}

func (s *Socket) flushLoop() {
	for {
		s.mu.Lock()
		if len(s.sendQueue) == 0 {
			s.sending = false
			needShutdown := s.localFinReq && !s.localFinSent
			s.mu.Unlock()
			if needShutdown {
				s.doShutdownWrite()
			}
			return
		}
		chunk := s.sendQueue
		s.sendQueue = nil
		conn := s.conn
		s.mu.Unlock()

		if _, err := conn.Write(chunk); err != nil {
			s.strand.Post(reactor.Guard(s.alive, func() {
				s.mu.Lock()
				s.sending = false
				s.mu.Unlock()
				s.log.Warning("tcp write failed", logger.Fields{"error": err.Error()})
			}))
			return
		}
	}
}

func (s *Socket) doShutdownWrite() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	err := conn.CloseWrite()
	s.strand.Post(reactor.Guard(s.alive, func() {
		s.mu.Lock()
		s.localFinSent = true
		s.mu.Unlock()
		if err != nil {
			s.log.Warning("tcp shutdown failed", logger.Fields{"error": err.Error()})
		}
	}))
}

// Receive copies up to len(buf) bytes out of the receive queue.
func (s *Socket) Receive(buf []byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(buf)
	if avail := int(s.recvQueue.Size()); n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}
	copy(buf, s.recvQueue.GetFront(n))
	s.recvQueue.PopFront(n)
	s.recvRoom.Broadcast()
	return n
}

// ReceiveMessage dequeues one complete length-prefixed frame, if buffered.
func (s *Socket) ReceiveMessage() (*message.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := message.Unframe(s.recvQueue)
	if !ok {
		return nil, false
	}
	s.recvRoom.Broadcast()
	return message.New(payload...), true
}

// Shutdown requests a local half-close. The FIN is sent once the send
// queue drains, not immediately (spec §9).
func (s *Socket) Shutdown() {
	s.strand.Post(reactor.Guard(s.alive, func() {
		s.mu.Lock()
		if s.localFinReq {
			s.mu.Unlock()
			return
		}
		s.localFinReq = true
		idle := !s.sending
		s.mu.Unlock()
		if idle {
			s.doShutdownWrite()
		}
	}))
}

func (s *Socket) LocalHasShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localFinSent
}

func (s *Socket) RemoteHasShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteFin
}

func (s *Socket) BytesToSend() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sendQueue)
}

func (s *Socket) BytesToReceive() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.recvQueue.Size())
}

// ClearBuffers drops both queues, discarding unsent and unread data.
func (s *Socket) ClearBuffers() {
	s.mu.Lock()
	s.sendQueue = nil
	s.recvQueue.Clear()
	s.recvRoom.Broadcast()
	s.mu.Unlock()
}

// Close is terminal. It best-effort closes the FIN if not already sent,
// warns if data remains queued, then releases the handle. Safe to call
// more than once.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	leftover := len(s.sendQueue) + int(s.recvQueue.Size())
	s.recvRoom.Broadcast()
	s.mu.Unlock()

	s.alive.Clear()
	s.strand.Close()

	if leftover > 0 {
		s.log.Warning("closing tcp socket with data still queued", logger.Fields{"bytes": leftover})
	}
	if conn == nil {
		return nil
	}
	if err := socket.ErrorFilter(conn.Close()); err != nil {
		return liberr.KindConnectionReset.Error(err)
	}
	return nil
}

func (s *Socket) LocalEndpoint() address.Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localAddr
}

func (s *Socket) RemoteEndpoint() address.Endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteAddr
}
