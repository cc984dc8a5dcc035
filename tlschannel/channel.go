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

// Package tlschannel layers a TLS state machine over any transport.Transport
// (spec §4.6), exposing the same reliable-transport contract so Link and
// application code don't need to know whether they are talking over plain
// TCP or TLS.
package tlschannel

import (
	"crypto/tls"
	"crypto/x509"
	"sync"

	"github.com/binary1248/sfnul-go/address"
	"github.com/binary1248/sfnul-go/certificates"
	"github.com/binary1248/sfnul-go/certificates/ca"
	"github.com/binary1248/sfnul-go/certificates/certs"
	liberr "github.com/binary1248/sfnul-go/errors"
	"github.com/binary1248/sfnul-go/internal/metrics"
	"github.com/binary1248/sfnul-go/logger"
	"github.com/binary1248/sfnul-go/message"
	"github.com/binary1248/sfnul-go/reactor"
	"github.com/binary1248/sfnul-go/socket"
	"github.com/binary1248/sfnul-go/transport"
)

// VerifyMode is the peer-verification enforcement policy (spec §4.6).
type VerifyMode uint8

const (
	VerifyNone VerifyMode = iota
	VerifyOptional
	VerifyRequired
)

// Channel wraps an underlying transport.Transport with a TLS state
// machine. It satisfies transport.Transport itself, so it can be layered
// under Link the same way a plain TCP socket can.
type Channel struct {
	pool   *reactor.Pool
	strand *reactor.Strand
	alive  *reactor.Alive
	log    logger.Logger

	underlying transport.Transport
	isServer   bool
	mode       VerifyMode

	mu           sync.Mutex
	cfg          *certificates.Config
	state        State
	tlsConn      *tls.Conn
	adapter      *connAdapter
	verification VerificationResult
	pendingOn    func(err error)

	localFinReq  bool
	localFinSent bool
	remoteFin    bool
	sendQueue    []byte
	sending      bool
	recvQueue    *message.Message
	closed       bool
}

// New wraps underlying with a TLS state machine. cfg is copied by
// reference and may still be mutated afterward via AddTrustedCertificate /
// SetPeerCommonName / SetCertificateKeyPair (spec §4.6's deferred
// certificate selection relies on this).
func New(pool *reactor.Pool, log logger.Logger, underlying transport.Transport, cfg *certificates.Config, isServer bool, mode VerifyMode) *Channel {
	if log == nil {
		log = logger.Discard
	}
	if cfg == nil {
		cfg = &certificates.Config{}
	}
	return &Channel{
		pool:       pool,
		strand:     pool.NewStrand(),
		alive:      reactor.NewAlive(),
		log:        log.WithFields(logger.Fields{"component": "tlschannel"}),
		underlying: underlying,
		isServer:   isServer,
		mode:       mode,
		cfg:        cfg,
		recvQueue:  message.New(),
	}
}

// AddTrustedCertificate appends to the CA store used to verify the peer:
// the client CA pool on a server Channel, the root CA pool on a client one.
func (c *Channel) AddTrustedCertificate(cert string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isServer {
		c.cfg.ClientCA = append(c.cfg.ClientCA, ca.Cert(cert))
	} else {
		c.cfg.RootCA = append(c.cfg.RootCA, ca.Cert(cert))
	}
}

// ReplaceTrustedCertificates swaps the entire CA store used to verify the
// peer (client CA pool on a server Channel, root CA pool on a client one)
// for certs, discarding whatever was there before. Intended as the
// callback for ca.WatchDir: each reload of a CA directory replaces the
// trust store wholesale rather than accumulating duplicates across
// reloads the way AddTrustedCertificate would.
func (c *Channel) ReplaceTrustedCertificates(trusted []ca.Cert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isServer {
		c.cfg.ClientCA = trusted
	} else {
		c.cfg.RootCA = trusted
	}
}

// SetPeerCommonName sets the expected common name matched against the
// peer's certificate subject/SAN.
func (c *Channel) SetPeerCommonName(name string) {
	c.mu.Lock()
	c.cfg.ServerName = name
	c.mu.Unlock()
}

// SetCertificateKeyPair supplies the local certificate and key, required
// before a Server-role Channel can complete a handshake. If a handshake is
// stalled waiting on this (the deferred-selection case of spec §4.6), it
// resumes immediately.
func (c *Channel) SetCertificateKeyPair(cert, key string) liberr.Error {
	c.mu.Lock()
	c.cfg.Certs = append(c.cfg.Certs, certs.Certif{Cert: cert, Key: key})
	onCb := c.pendingOn
	deferred := c.state == StateHandshaking && c.tlsConn == nil && onCb != nil
	c.pendingOn = nil
	cfg := c.cfg
	c.mu.Unlock()

	if !deferred {
		return nil
	}
	tlsCfg, cerr := cfg.Build(c.isServer)
	if cerr != nil {
		return cerr
	}
	if tlsCfg == nil {
		c.mu.Lock()
		c.pendingOn = onCb
		c.mu.Unlock()
		return nil
	}
	c.applyMode(tlsCfg)
	c.doHandshake(tlsCfg, onCb)
	return nil
}

// VerificationResult returns the bitset of verification failures observed
// at handshake, valid once Established.
func (c *Channel) VerificationResult() VerificationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verification
}

// State returns the current lifecycle phase.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect dials the underlying transport, then drives the client-side TLS
// handshake once it connects.
func (c *Channel) Connect(endpoint address.Endpoint, on func(err error)) {
	c.underlying.Connect(endpoint, func(err error) {
		if err != nil {
			on(err)
			return
		}
		c.beginHandshake(on)
	})
}

// Accept drives the TLS handshake over an already-connected underlying
// transport (typically a just-accepted tcp.Socket), on the server or client
// side according to the isServer flag given to New. If a server-role
// Channel has no certificate/key pair yet, the handshake is deferred until
// SetCertificateKeyPair supplies one.
func (c *Channel) Accept(on func(err error)) {
	c.beginHandshake(on)
}

func (c *Channel) beginHandshake(on func(err error)) {
	c.mu.Lock()
	if c.state != StateNew {
		c.mu.Unlock()
		return
	}
	c.state = StateHandshaking
	c.mu.Unlock()

	tlsCfg, cerr := c.cfg.Build(c.isServer)
	if cerr != nil {
		on(cerr)
		return
	}
	if tlsCfg == nil {
		c.mu.Lock()
		c.pendingOn = on
		c.mu.Unlock()
		return
	}
	c.applyMode(tlsCfg)
	c.doHandshake(tlsCfg, on)
}

// applyMode relaxes the standard library's own strict verification for
// Optional/None so the handshake can complete and verification_result()
// can still be inspected (spec §4.6: "with Optional the connection is
// allowed and the application may inspect verification_result()").
// Required leaves crypto/tls's own verification in force.
func (c *Channel) applyMode(tlsCfg *tls.Config) {
	if c.mode != VerifyRequired {
		tlsCfg.InsecureSkipVerify = true
	}
}

func (c *Channel) doHandshake(tlsCfg *tls.Config, on func(err error)) {
	adapter := newConnAdapter(c.underlying)
	var conn *tls.Conn
	if c.isServer {
		conn = tls.Server(adapter, tlsCfg)
	} else {
		conn = tls.Client(adapter, tlsCfg)
	}

	go func() {
		err := conn.Handshake()
		c.strand.Post(reactor.Guard(c.alive, func() {
			var verification VerificationResult
			if err == nil {
				verification = c.classifyManual(conn.ConnectionState())
			} else {
				verification = classifyHandshakeErr(err)
			}

			c.mu.Lock()
			c.verification = verification
			if err == nil && c.mode == VerifyRequired && verification != Passed {
				err = liberr.KindTLSVerification.Error()
			}
			if err == nil {
				c.tlsConn = conn
				c.adapter = adapter
				c.state = StateEstablished
			} else {
				c.state = StateClosed
			}
			c.mu.Unlock()

			if err == nil {
				c.startReader()
				c.mu.Lock()
				resumeFlush := c.sending && len(c.sendQueue) > 0
				c.mu.Unlock()
				if resumeFlush {
					go c.flushLoop()
				}
			}
			on(err)
		}))
	}()
}

func classifyHandshakeErr(err error) VerificationResult {
	switch e := err.(type) {
	case x509.HostnameError:
		return CnMismatch
	case x509.UnknownAuthorityError:
		return NotTrusted
	case x509.CertificateInvalidError:
		if e.Reason == x509.Expired {
			return Expired
		}
		return NotTrusted
	default:
		return NotTrusted
	}
}

// classifyManual computes the verification bitset by hand (spec §4.6:
// "certificate-chain trust is computed first...regardless of trust, if a
// common name was set and it does not match, CnMismatch is set"), since
// InsecureSkipVerify bypassed crypto/tls's own classification for
// Optional/None mode.
func (c *Channel) classifyManual(state tls.ConnectionState) VerificationResult {
	c.mu.Lock()
	mode := c.mode
	serverName := c.cfg.ServerName
	var caCerts []string
	if c.isServer {
		for _, ca := range c.cfg.ClientCA {
			caCerts = append(caCerts, string(ca))
		}
	} else {
		for _, ca := range c.cfg.RootCA {
			caCerts = append(caCerts, string(ca))
		}
	}
	c.mu.Unlock()

	if mode == VerifyNone || len(state.PeerCertificates) == 0 {
		return Passed
	}

	var result VerificationResult

	if len(caCerts) > 0 {
		roots := x509.NewCertPool()
		for _, pem := range caCerts {
			roots.AppendCertsFromPEM([]byte(pem))
		}
		intermediates := x509.NewCertPool()
		for _, inter := range state.PeerCertificates[1:] {
			intermediates.AddCert(inter)
		}
		if _, err := state.PeerCertificates[0].Verify(x509.VerifyOptions{Roots: roots, Intermediates: intermediates}); err != nil {
			if ce, ok := err.(x509.CertificateInvalidError); ok && ce.Reason == x509.Expired {
				result |= Expired
			} else {
				result |= NotTrusted
			}
		}
	}

	if serverName != "" {
		if err := state.PeerCertificates[0].VerifyHostname(serverName); err != nil {
			result |= CnMismatch
		}
	}

	return result
}

func (c *Channel) startReader() {
	go func() {
		buf := make([]byte, socket.DefaultBufferSize)
		for {
			n, err := c.tlsConn.Read(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				c.strand.Post(reactor.Guard(c.alive, func() {
					c.mu.Lock()
					c.recvQueue.Append(chunk)
					depth := c.recvQueue.Size()
					c.mu.Unlock()
					metrics.QueuedBytes.WithLabelValues("tls", "receive").Set(float64(depth))
				}))
			}
			if err != nil {
				c.strand.Post(reactor.Guard(c.alive, func() {
					c.mu.Lock()
					c.remoteFin = true
					c.mu.Unlock()
				}))
				return
			}
		}
	}()
}

// Send enqueues plaintext for the TLS engine to record and forward. Per
// spec §4.6, Send must succeed during Handshaking too: the bytes are
// buffered in sendQueue and flushLoop only actually writes them once the
// handshake finishes and tlsConn is set, so nothing offered before the
// async Connect/Accept callback fires is lost.
func (c *Channel) Send(data []byte) bool {
	c.mu.Lock()
	if c.closed || c.localFinReq {
		c.mu.Unlock()
		return false
	}
	c.sendQueue = append(c.sendQueue, data...)
	already := c.sending
	c.sending = true
	c.mu.Unlock()

	if !already {
		go c.flushLoop()
	}
	return true
}

func (c *Channel) SendMessage(m *message.Message) bool {
	return c.Send(message.Frame(m.Bytes()))
}

func (c *Channel) flushLoop() {
	for {
		c.mu.Lock()
		if len(c.sendQueue) == 0 {
			c.sending = false
			needShutdown := c.localFinReq && !c.localFinSent
			conn := c.tlsConn
			c.mu.Unlock()
			if needShutdown && conn != nil {
				c.doShutdownWrite(conn)
			}
			return
		}
		conn := c.tlsConn
		if conn == nil {
			// Still handshaking: leave sending true and the bytes queued.
			// doHandshake restarts this loop once tlsConn is set.
			c.mu.Unlock()
			return
		}
		chunk := c.sendQueue
		c.sendQueue = nil
		c.mu.Unlock()

		if _, err := conn.Write(chunk); err != nil {
			c.strand.Post(reactor.Guard(c.alive, func() {
				c.mu.Lock()
				c.sending = false
				c.mu.Unlock()
				c.log.Warning("tls write failed", logger.Fields{"error": err.Error()})
			}))
			return
		}
	}
}

func (c *Channel) doShutdownWrite(conn *tls.Conn) {
	err := conn.CloseWrite()
	c.strand.Post(reactor.Guard(c.alive, func() {
		c.mu.Lock()
		c.localFinSent = true
		c.mu.Unlock()
		if err != nil {
			c.log.Warning("tls close_notify failed", logger.Fields{"error": err.Error()})
		}
	}))
}

func (c *Channel) Receive(buf []byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(buf)
	if avail := int(c.recvQueue.Size()); n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}
	copy(buf, c.recvQueue.GetFront(n))
	c.recvQueue.PopFront(n)
	return n
}

func (c *Channel) ReceiveMessage() (*message.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := message.Unframe(c.recvQueue)
	if !ok {
		return nil, false
	}
	return message.New(payload...), true
}

func (c *Channel) Shutdown() {
	c.strand.Post(reactor.Guard(c.alive, func() {
		c.mu.Lock()
		if c.localFinReq {
			c.mu.Unlock()
			return
		}
		c.localFinReq = true
		idle := !c.sending
		conn := c.tlsConn
		c.mu.Unlock()
		if idle && conn != nil {
			c.doShutdownWrite(conn)
		}
	}))
}

func (c *Channel) LocalHasShutdown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localFinSent
}

func (c *Channel) RemoteHasShutdown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remoteFin
}

func (c *Channel) BytesToSend() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sendQueue)
}

func (c *Channel) BytesToReceive() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.recvQueue.Size())
}

func (c *Channel) ClearBuffers() {
	c.mu.Lock()
	c.sendQueue = nil
	c.recvQueue.Clear()
	c.mu.Unlock()
}

// Close tears down the TLS session and the underlying transport. Safe to
// call more than once.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.state = StateClosed
	conn := c.tlsConn
	adapter := c.adapter
	c.mu.Unlock()

	c.alive.Clear()
	c.strand.Close()

	if conn != nil {
		_ = conn.Close()
	}
	if adapter != nil {
		_ = adapter.Close()
	}
	return c.underlying.Close()
}

func (c *Channel) LocalEndpoint() address.Endpoint  { return c.underlying.LocalEndpoint() }
func (c *Channel) RemoteEndpoint() address.Endpoint { return c.underlying.RemoteEndpoint() }
