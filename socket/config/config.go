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

// Package config holds the validated configuration structs for TCP and UDP
// sockets: endpoints, buffer thresholds (spec §6 "per-socket send_soft_limit,
// send_hard_limit, receive_soft_limit, receive_hard_limit"), linger/keepalive,
// and an optional TLS overlay.
package config

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/binary1248/sfnul-go/certificates"
)

// ErrInvalidTLSConfig is returned by Validate when TLS is enabled on a
// socket kind the protocol cannot carry it on (UDP has no TLS overlay in
// this module; see spec.md §1 Non-goals: "encryption of UDP").
var ErrInvalidTLSConfig = errors.New("socket/config: TLS is not valid for this network kind")

var validate = validator.New()

// Buffers carries the bounded send/receive thresholds of spec §5 "Bounded
// buffers": a TCP send is rejected once the send hard limit would be
// exceeded. A UDP socket does not suspend its receive loop at the receive
// hard limit; it drops each datagram that would push its aggregate queue
// past that limit. Soft limits exist for callers that want early
// back-pressure signaling before the hard wall.
type Buffers struct {
	SendSoftLimit    int `mapstructure:"send_soft_limit" json:"send_soft_limit" yaml:"send_soft_limit" validate:"gte=0"`
	SendHardLimit    int `mapstructure:"send_hard_limit" json:"send_hard_limit" yaml:"send_hard_limit" validate:"gtefield=SendSoftLimit"`
	ReceiveSoftLimit int `mapstructure:"receive_soft_limit" json:"receive_soft_limit" yaml:"receive_soft_limit" validate:"gte=0"`
	ReceiveHardLimit int `mapstructure:"receive_hard_limit" json:"receive_hard_limit" yaml:"receive_hard_limit" validate:"gtefield=ReceiveSoftLimit"`
}

// DefaultBuffers matches spec §6's defaults: soft=64KiB, hard=128KiB.
func DefaultBuffers() Buffers {
	return Buffers{
		SendSoftLimit:    64 * 1024,
		SendHardLimit:    128 * 1024,
		ReceiveSoftLimit: 64 * 1024,
		ReceiveHardLimit: 128 * 1024,
	}
}

// TLS overlays a TCP socket configuration with certificate material,
// mirroring the teacher's socket/config.Client.TLS / Server.TLS shape.
type TLS struct {
	Enabled bool                  `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Config  *certificates.Config  `mapstructure:"config" json:"config" yaml:"config" validate:"required_if=Enabled true"`
}

// Client configures an outbound TCP or UDP socket.
type Client struct {
	Address string  `mapstructure:"address" json:"address" yaml:"address" validate:"required,hostname_port"`
	Buffers Buffers `mapstructure:"buffers" json:"buffers" yaml:"buffers"`
	TLS     TLS     `mapstructure:"tls" json:"tls" yaml:"tls"`

	LingerSeconds int  `mapstructure:"linger_seconds" json:"linger_seconds" yaml:"linger_seconds"`
	KeepAlive     bool `mapstructure:"keep_alive" json:"keep_alive" yaml:"keep_alive"`

	// UDP is true when Address should be dialed as a UDP socket instead of
	// TCP; TLS.Enabled is rejected when UDP is true.
	UDP bool `mapstructure:"udp" json:"udp" yaml:"udp"`
}

// Validate checks struct tags and the TLS/protocol cross-field rule.
func (c *Client) Validate() error {
	if c.Buffers == (Buffers{}) {
		c.Buffers = DefaultBuffers()
	}
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.TLS.Enabled && c.UDP {
		return ErrInvalidTLSConfig
	}
	return nil
}

// Server configures a listening TCP socket or a bound UDP socket.
type Server struct {
	Address string  `mapstructure:"address" json:"address" yaml:"address" validate:"required,hostname_port"`
	Backlog int     `mapstructure:"backlog" json:"backlog" yaml:"backlog" validate:"gte=0"`
	Buffers Buffers `mapstructure:"buffers" json:"buffers" yaml:"buffers"`
	TLS     TLS     `mapstructure:"tls" json:"tls" yaml:"tls"`

	LingerSeconds int  `mapstructure:"linger_seconds" json:"linger_seconds" yaml:"linger_seconds"`
	KeepAlive     bool `mapstructure:"keep_alive" json:"keep_alive" yaml:"keep_alive"`
	UDP           bool `mapstructure:"udp" json:"udp" yaml:"udp"`
}

// Validate checks struct tags and the TLS/protocol cross-field rule.
func (s *Server) Validate() error {
	if s.Buffers == (Buffers{}) {
		s.Buffers = DefaultBuffers()
	}
	if s.Backlog == 0 {
		s.Backlog = 128
	}
	if err := validate.Struct(s); err != nil {
		return err
	}
	if s.TLS.Enabled && s.UDP {
		return ErrInvalidTLSConfig
	}
	return nil
}
