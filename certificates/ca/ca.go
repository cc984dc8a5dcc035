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

// Package ca holds a PEM-encoded certificate authority bundle and its
// x509.CertPool materialization.
package ca

import "crypto/x509"

// Cert is a PEM-encoded CA certificate (spec §6: "accepted as PEM text").
type Cert string

// AppendTo adds c's certificates to pool, returning false if none parsed.
func (c Cert) AppendTo(pool *x509.CertPool) bool {
	if c == "" {
		return false
	}
	return pool.AppendCertsFromPEM([]byte(c))
}

// Pool builds an *x509.CertPool from a list of CA bundles.
func Pool(certs []Cert) *x509.CertPool {
	pool := x509.NewCertPool()
	for _, c := range certs {
		c.AppendTo(pool)
	}
	return pool
}
