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

// Package tlsversion maps a small config-friendly enum onto crypto/tls's
// version constants.
package tlsversion

import "crypto/tls"

type Version uint16

const (
	VersionUnknown Version = 0
	VersionTLS12   Version = Version(tls.VersionTLS12)
	VersionTLS13   Version = Version(tls.VersionTLS13)
)

func (v Version) Uint16() uint16 { return uint16(v) }

func (v Version) String() string {
	switch v {
	case VersionTLS12:
		return "TLS12"
	case VersionTLS13:
		return "TLS13"
	default:
		return "unknown"
	}
}

// Parse maps a config string ("1.2", "1.3", "tls12", "tls13") to a Version.
func Parse(s string) Version {
	switch s {
	case "1.2", "tls12", "TLS12":
		return VersionTLS12
	case "1.3", "tls13", "TLS13":
		return VersionTLS13
	default:
		return VersionUnknown
	}
}
