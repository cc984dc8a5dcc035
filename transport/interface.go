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

// Package transport defines the capability set every reliable byte-stream
// transport implements (spec §9 "Polymorphic reliable transport"): a plain
// TCP socket and a TLS channel layered over one both satisfy Transport, so
// Link and anything else that multiplexes on top of a reliable stream is
// generic over this interface rather than tied to *tcp.Socket.
package transport

import (
	"github.com/binary1248/sfnul-go/address"
	"github.com/binary1248/sfnul-go/message"
)

// Transport is the capability set of spec §9: {connect, send, receive,
// shutdown, local_has_shutdown, remote_has_shutdown, bytes_to_send,
// bytes_to_receive, clear_buffers, close, framed-send, framed-receive,
// local_endpoint, remote_endpoint}. Variants: a plain TCP socket, and a TLS
// channel wrapping any Transport (including another TLS channel, though
// nothing in this module needs that).
type Transport interface {
	// Connect initiates an outbound connection to endpoint. on reports the
	// outcome once the reactor's strand has processed it.
	Connect(endpoint address.Endpoint, on func(err error))

	// Send enqueues data for transmission. It returns false (rejected)
	// when the transport is closed or local_fin_requested is true; a plain
	// TCP socket also rejects data while not connected or when its hard
	// send threshold would be exceeded, while a TLS channel applies no send
	// threshold of its own. ok reflects acceptance, not delivery.
	Send(data []byte) (ok bool)

	// SendMessage is the framed variant: u32 LE length | payload.
	SendMessage(m *message.Message) (ok bool)

	// Receive drains up to len(buf) bytes from the receive queue into buf,
	// returning the number of bytes copied. Zero means the queue is
	// currently empty, not an error.
	Receive(buf []byte) (n int)

	// ReceiveMessage yields a complete framed message, or ok=false if no
	// full frame is currently buffered.
	ReceiveMessage() (m *message.Message, ok bool)

	// Shutdown requests a local half-close. The FIN (or TLS close_notify)
	// is not transmitted until the send queue has fully drained.
	Shutdown()

	// LocalHasShutdown reports whether the FIN/close_notify has actually
	// been transmitted. Monotonic: never transitions true to false.
	LocalHasShutdown() bool

	// RemoteHasShutdown reports whether EOF/close_notify was observed from
	// the peer. Monotonic: never transitions true to false.
	RemoteHasShutdown() bool

	// BytesToSend returns the current send-queue depth.
	BytesToSend() int

	// BytesToReceive returns the current receive-queue depth.
	BytesToReceive() int

	// ClearBuffers drops both queues, possibly re-arming a suspended recv.
	ClearBuffers()

	// Close is terminal: best-effort FIN if not already sent, a warning
	// logged if data remain queued, then the handle is released. Safe to
	// call more than once.
	Close() error

	// LocalEndpoint returns the local (address, port) once connected.
	LocalEndpoint() address.Endpoint

	// RemoteEndpoint returns the peer (address, port) once connected.
	RemoteEndpoint() address.Endpoint
}
