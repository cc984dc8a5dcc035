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

package tcp

import (
	"net"
	"sync"

	"github.com/binary1248/sfnul-go/address"
	liberr "github.com/binary1248/sfnul-go/errors"
	"github.com/binary1248/sfnul-go/logger"
	"github.com/binary1248/sfnul-go/reactor"
	"github.com/binary1248/sfnul-go/socket"
	"github.com/binary1248/sfnul-go/socket/config"
)

// DefaultBacklog mirrors the original's default_backlog. Listen substitutes
// it for a backlog <= 0; no backlog value reaches the operating system,
// since net.ListenTCP applies the platform's own listen backlog.
const DefaultBacklog = 128

// Listener accepts inbound TCP connections and hands each one to onAccept
// on its own strand, as a ready *Socket.
type Listener struct {
	pool   *reactor.Pool
	strand *reactor.Strand
	alive  *reactor.Alive
	log    logger.Logger

	buffers config.Buffers

	mu       sync.Mutex
	ln       *net.TCPListener
	endpoint address.Endpoint
}

// NewListener returns a Listener not yet bound to any endpoint.
func NewListener(pool *reactor.Pool, log logger.Logger, buffers config.Buffers) *Listener {
	if log == nil {
		log = logger.Discard
	}
	return &Listener{
		pool:    pool,
		strand:  pool.NewStrand(),
		alive:   reactor.NewAlive(),
		log:     log.WithFields(logger.Fields{"component": "socket/tcp.Listener"}),
		buffers: buffers,
	}
}

// Listen binds endpoint and starts accepting. onAccept is invoked on the
// listener's strand for every accepted connection, already wrapped as a
// *Socket in the Connected state. backlog <= 0 uses DefaultBacklog; the
// value is not passed to net.ListenTCP and does not bound the accept queue.
func (l *Listener) Listen(endpoint address.Endpoint, backlog int, onAccept func(*Socket)) liberr.Error {
	if backlog <= 0 {
		backlog = DefaultBacklog
	}

	ln, err := net.ListenTCP("tcp", endpoint.ToTCPAddr())
	if err != nil {
		return liberr.KindInvalidArgument.Error(err)
	}

	l.mu.Lock()
	l.ln = ln
	l.endpoint = tcpAddrToEndpoint(ln.Addr())
	l.mu.Unlock()

	go l.acceptLoop(onAccept)
	return nil
}

func (l *Listener) acceptLoop(onAccept func(*Socket)) {
	for {
		l.mu.Lock()
		ln := l.ln
		l.mu.Unlock()
		if ln == nil {
			return
		}

		conn, err := ln.AcceptTCP()
		if err != nil {
			if filtered := socket.ErrorFilter(err); filtered != nil {
				l.log.Warning("tcp accept failed", logger.Fields{"error": filtered.Error()})
			}
			return
		}

		l.strand.Post(reactor.Guard(l.alive, func() {
			s := fromConn(l.pool, l.log, l.buffers, conn)
			onAccept(s)
		}))
	}
}

// Close stops accepting and releases the listening socket. Safe to call
// more than once.
func (l *Listener) Close() error {
	l.mu.Lock()
	ln := l.ln
	l.ln = nil
	l.mu.Unlock()

	l.alive.Clear()
	l.strand.Close()

	if ln == nil {
		return nil
	}
	return socket.ErrorFilter(ln.Close())
}

// Endpoint returns the bound local endpoint, valid once Listen succeeds.
func (l *Listener) Endpoint() address.Endpoint {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.endpoint
}
