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

// Package certs holds a PEM-encoded private key/certificate pair (spec §6:
// "including encrypted private keys (caller supplies passphrase)").
package certs

import (
	"crypto/tls"
	"encoding/pem"

	liberr "github.com/binary1248/sfnul-go/errors"
)

// Certif is one key/certificate pair, plus an optional passphrase for an
// encrypted private key.
type Certif struct {
	Key        string `mapstructure:"key" json:"key" yaml:"key"`
	Cert       string `mapstructure:"cert" json:"cert" yaml:"cert"`
	Passphrase string `mapstructure:"passphrase" json:"passphrase" yaml:"passphrase"`
}

// Parse decodes the pair into a tls.Certificate. Encrypted keys are
// rejected with KindInvalidArgument: passphrase-protected PKCS#1/SEC1
// decryption was removed from the standard library (x509.DecryptPEMBlock)
// and is deliberately not reimplemented here.
func (c Certif) Parse() (tls.Certificate, liberr.Error) {
	block, _ := pem.Decode([]byte(c.Key))
	if block != nil && c.Passphrase != "" {
		return tls.Certificate{}, liberr.KindInvalidArgument.Error()
	}

	cert, err := tls.X509KeyPair([]byte(c.Cert), []byte(c.Key))
	if err != nil {
		return tls.Certificate{}, liberr.KindInvalidArgument.Error(err)
	}
	return cert, nil
}

// ParseAll parses every pair, stopping at the first failure.
func ParseAll(pairs []Certif) ([]tls.Certificate, liberr.Error) {
	out := make([]tls.Certificate, 0, len(pairs))
	for _, p := range pairs {
		cert, err := p.Parse()
		if err != nil {
			return nil, err
		}
		out = append(out, cert)
	}
	return out, nil
}
