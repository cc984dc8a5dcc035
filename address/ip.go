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

// Package address holds the value types for IP addresses and (address, port)
// endpoints (spec §3 "IpAddress", "Endpoint") plus blocking hostname
// resolution (spec §4.2).
package address

import (
	"net"

	liberr "github.com/binary1248/sfnul-go/errors"
)

// IpAddress is an immutable 4- or 16-octet address. The zero value is not a
// valid address; construct with FromString, FromIP or Resolve.
type IpAddress struct {
	octets [16]byte
	v4     bool
	valid  bool
}

// FromString parses a numeric IPv4 or IPv6 literal. It never performs a DNS
// lookup; use Resolve for hostnames.
func FromString(s string) (IpAddress, liberr.Error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return IpAddress{}, liberr.KindInvalidArgument.Error()
	}
	return FromIP(ip), nil
}

// FromIP adapts a net.IP. Invalid or empty inputs return the zero value.
func FromIP(ip net.IP) IpAddress {
	if v4 := ip.To4(); v4 != nil {
		var a IpAddress
		copy(a.octets[:4], v4)
		a.v4 = true
		a.valid = true
		return a
	}
	if v6 := ip.To16(); v6 != nil {
		var a IpAddress
		copy(a.octets[:], v6)
		a.valid = true
		return a
	}
	return IpAddress{}
}

// IsValid reports whether the address was successfully constructed.
func (a IpAddress) IsValid() bool { return a.valid }

// IsIPv4 reports whether this is a 4-octet address.
func (a IpAddress) IsIPv4() bool { return a.valid && a.v4 }

// IsIPv6 reports whether this is a 16-octet address.
func (a IpAddress) IsIPv6() bool { return a.valid && !a.v4 }

// IsLoopback reports whether the address is in 127.0.0.0/8 or ::1.
func (a IpAddress) IsLoopback() bool { return a.ToNetIP().IsLoopback() }

// ToNetIP converts back to a net.IP for use with the standard library.
func (a IpAddress) ToNetIP() net.IP {
	if !a.valid {
		return nil
	}
	if a.v4 {
		return net.IP(a.octets[:4])
	}
	return net.IP(a.octets[:])
}

// String renders the canonical textual form, or "" for an invalid address.
func (a IpAddress) String() string {
	if !a.valid {
		return ""
	}
	return a.ToNetIP().String()
}

// Equal compares octet-wise, per spec §3 ("equality is octet-wise").
func (a IpAddress) Equal(b IpAddress) bool {
	if a.valid != b.valid || a.v4 != b.v4 {
		return false
	}
	if !a.valid {
		return true
	}
	n := 16
	if a.v4 {
		n = 4
	}
	for i := 0; i < n; i++ {
		if a.octets[i] != b.octets[i] {
			return false
		}
	}
	return true
}
