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

// Package curves holds a config-friendly wrapper around crypto/tls's
// elliptic curve ids for ECDHE key exchange.
package curves

import "crypto/tls"

type Curves uint16

const (
	P256   Curves = Curves(tls.CurveP256)
	P384   Curves = Curves(tls.CurveP384)
	P521   Curves = Curves(tls.CurveP521)
	X25519 Curves = Curves(tls.X25519)
)

func (c Curves) Uint16() uint16     { return uint16(c) }
func (c Curves) CurveID() tls.CurveID { return tls.CurveID(c) }

// Check reports whether id names one of the four curves above.
func Check(id uint16) bool {
	switch Curves(id) {
	case P256, P384, P521, X25519:
		return true
	default:
		return false
	}
}
