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

package address

import (
	"fmt"
	"net"
	"strconv"
)

// Endpoint pairs an IpAddress with a port, the unit every socket and
// listener in this module binds, connects and accepts on.
type Endpoint struct {
	Address IpAddress
	Port    uint16
}

// NewEndpoint constructs an Endpoint from an already-resolved address.
func NewEndpoint(addr IpAddress, port uint16) Endpoint {
	return Endpoint{Address: addr, Port: port}
}

// ParseEndpoint parses "host:port" where host is a numeric IPv4/IPv6
// literal. Hostnames are rejected; callers needing DNS go through Resolve
// first and build the Endpoint from the result.
func ParseEndpoint(s string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Endpoint{}, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Endpoint{}, fmt.Errorf("address: invalid port %q: %w", portStr, err)
	}
	addr, aerr := FromString(host)
	if aerr != nil {
		return Endpoint{}, aerr
	}
	return NewEndpoint(addr, uint16(port)), nil
}

// String renders "host:port", bracketing IPv6 literals.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Address.String(), strconv.FormatUint(uint64(e.Port), 10))
}

// Equal compares both the address and the port.
func (e Endpoint) Equal(o Endpoint) bool {
	return e.Port == o.Port && e.Address.Equal(o.Address)
}

// ToTCPAddr adapts to *net.TCPAddr for use with the stdlib net package.
func (e Endpoint) ToTCPAddr() *net.TCPAddr {
	return &net.TCPAddr{IP: e.Address.ToNetIP(), Port: int(e.Port)}
}

// ToUDPAddr adapts to *net.UDPAddr for use with the stdlib net package.
func (e Endpoint) ToUDPAddr() *net.UDPAddr {
	return &net.UDPAddr{IP: e.Address.ToNetIP(), Port: int(e.Port)}
}
