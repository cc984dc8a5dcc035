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

package tlschannel

import (
	"io"
	"net"
	"time"

	"github.com/binary1248/sfnul-go/transport"
)

// connAdapter bridges a reactor-style, non-blocking transport.Transport to
// the blocking net.Conn crypto/tls.Conn requires. This is the Go shape of
// the original's SendInterface/RecvInterface glue functions that fed the
// embedded TLS engine's BIO callbacks from a ReliableTransport.
type connAdapter struct {
	t      transport.Transport
	closed chan struct{}
}

func newConnAdapter(t transport.Transport) *connAdapter {
	return &connAdapter{t: t, closed: make(chan struct{})}
}

func (a *connAdapter) Read(p []byte) (int, error) {
	for {
		select {
		case <-a.closed:
			return 0, io.EOF
		default:
		}
		if n := a.t.Receive(p); n > 0 {
			return n, nil
		}
		if a.t.RemoteHasShutdown() {
			return 0, io.EOF
		}
		time.Sleep(time.Millisecond)
	}
}

func (a *connAdapter) Write(p []byte) (int, error) {
	if a.t.Send(p) {
		return len(p), nil
	}
	// Hard limit hit: back off briefly and retry, since the underlying
	// queue drains asynchronously as bytes reach the wire.
	for i := 0; i < 200; i++ {
		select {
		case <-a.closed:
			return 0, io.ErrClosedPipe
		default:
		}
		time.Sleep(time.Millisecond)
		if a.t.Send(p) {
			return len(p), nil
		}
	}
	return 0, io.ErrShortWrite
}

func (a *connAdapter) Close() error {
	select {
	case <-a.closed:
	default:
		close(a.closed)
	}
	return nil
}

func (a *connAdapter) LocalAddr() net.Addr  { return endpointAddr{a.t.LocalEndpoint().String()} }
func (a *connAdapter) RemoteAddr() net.Addr { return endpointAddr{a.t.RemoteEndpoint().String()} }

func (a *connAdapter) SetDeadline(time.Time) error      { return nil }
func (a *connAdapter) SetReadDeadline(time.Time) error  { return nil }
func (a *connAdapter) SetWriteDeadline(time.Time) error { return nil }

type endpointAddr struct{ s string }

func (e endpointAddr) Network() string { return "tcp" }
func (e endpointAddr) String() string  { return e.s }
