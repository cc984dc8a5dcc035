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

// Package certificates configures the TLS material and policy a Channel
// (spec §4.6) drives its handshake with: certificate pairs, root/client CA
// pools, cipher and curve restriction, version bounds, and client-auth mode.
package certificates

import (
	"crypto/tls"
	"fmt"

	"github.com/go-playground/validator/v10"

	tlsaut "github.com/binary1248/sfnul-go/certificates/auth"
	tlscas "github.com/binary1248/sfnul-go/certificates/ca"
	tlscrt "github.com/binary1248/sfnul-go/certificates/certs"
	tlscpr "github.com/binary1248/sfnul-go/certificates/cipher"
	tlscrv "github.com/binary1248/sfnul-go/certificates/curves"
	tlsvrs "github.com/binary1248/sfnul-go/certificates/tlsversion"
	liberr "github.com/binary1248/sfnul-go/errors"
)

var validate = validator.New()

// Config is the declarative TLS policy for one Channel role (client or
// server). Certs is required for a server (spec §4.6: a server without a
// cert/key pair set stays Handshaking, buffering bytes, until one is
// supplied — "deferred certificate selection").
type Config struct {
	Certs      []tlscrt.Certif `mapstructure:"certs" json:"certs" yaml:"certs"`
	RootCA     []tlscas.Cert   `mapstructure:"root_ca" json:"root_ca" yaml:"root_ca"`
	ClientCA   []tlscas.Cert   `mapstructure:"client_ca" json:"client_ca" yaml:"client_ca"`
	CipherList []tlscpr.Cipher `mapstructure:"cipher_list" json:"cipher_list" yaml:"cipher_list"`
	CurveList  []tlscrv.Curves `mapstructure:"curve_list" json:"curve_list" yaml:"curve_list"`

	VersionMin tlsvrs.Version    `mapstructure:"version_min" json:"version_min" yaml:"version_min"`
	VersionMax tlsvrs.Version    `mapstructure:"version_max" json:"version_max" yaml:"version_max"`
	AuthClient tlsaut.ClientAuth `mapstructure:"auth_client" json:"auth_client" yaml:"auth_client"`

	// ServerName is the expected peer common name for client-side
	// verification (spec §4.6 "expected common name").
	ServerName string `mapstructure:"server_name" json:"server_name" yaml:"server_name" validate:"omitempty,hostname|fqdn"`
}

// Validate reports struct-tag violations, wrapped as a library Error the
// way every other config type in this module reports validation failure.
func (c *Config) Validate() liberr.Error {
	if err := validate.Struct(c); err != nil {
		e := liberr.KindInvalidArgument.Error()
		for _, fe := range err.(validator.ValidationErrors) {
			e.Add(fmt.Errorf("certificates.Config field %q fails constraint %q", fe.StructNamespace(), fe.ActualTag()))
		}
		return e
	}
	return nil
}

// Build materializes a *tls.Config for the given role. With isServer set
// and no Certs configured it returns (nil, nil): certificate selection is
// deferred (see tlschannel). A client with no Certs gets a config without a
// certificate of its own, since dialing out normally does not need one.
func (c *Config) Build(isServer bool) (*tls.Config, liberr.Error) {
	certs, cerr := tlscrt.ParseAll(c.Certs)
	if cerr != nil {
		return nil, cerr
	}
	if isServer && len(certs) == 0 {
		return nil, nil // deferred: caller buffers until SetCertificateKeyPair is called.
	}

	cfg := &tls.Config{
		Certificates: certs,
		ServerName:   c.ServerName,
		MinVersion:   c.minVersion(),
		MaxVersion:   c.maxVersion(),
		ClientAuth:   c.AuthClient.TLS(),
	}

	if len(c.RootCA) > 0 {
		cfg.RootCAs = tlscas.Pool(c.RootCA)
	}
	if len(c.ClientCA) > 0 {
		cfg.ClientCAs = tlscas.Pool(c.ClientCA)
	}
	if len(c.CipherList) > 0 {
		ids := make([]uint16, 0, len(c.CipherList))
		for _, s := range c.CipherList {
			if tlscpr.Check(s.Uint16()) {
				ids = append(ids, s.Uint16())
			}
		}
		cfg.CipherSuites = ids
	}
	if len(c.CurveList) > 0 {
		ids := make([]tls.CurveID, 0, len(c.CurveList))
		for _, s := range c.CurveList {
			if tlscrv.Check(s.Uint16()) {
				ids = append(ids, s.CurveID())
			}
		}
		cfg.CurvePreferences = ids
	}

	return cfg, nil
}

func (c *Config) minVersion() uint16 {
	if c.VersionMin == tlsvrs.VersionUnknown {
		return tls.VersionTLS12
	}
	return c.VersionMin.Uint16()
}

func (c *Config) maxVersion() uint16 {
	if c.VersionMax == tlsvrs.VersionUnknown {
		return tls.VersionTLS13
	}
	return c.VersionMax.Uint16()
}
