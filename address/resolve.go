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
	"context"
	"net"
)

var defaultResolver = net.DefaultResolver

// Resolve performs a blocking DNS lookup of hostname on the calling
// goroutine. On failure it returns a nil slice rather than an error, mirroring
// the original Resolve(), which swallows lookup failure and hands back an
// empty result set for the caller to treat as "no addresses". Result
// ordering follows whatever the platform resolver returned.
func Resolve(hostname string) []IpAddress {
	return ResolveContext(context.Background(), hostname)
}

// ResolveContext is Resolve with caller-supplied cancellation, for use from
// reactor-scheduled work that must respect a deadline instead of blocking
// the worker indefinitely.
func ResolveContext(ctx context.Context, hostname string) []IpAddress {
	ips, err := defaultResolver.LookupIP(ctx, "ip", hostname)
	if err != nil {
		return nil
	}
	out := make([]IpAddress, 0, len(ips))
	for _, ip := range ips {
		if a := FromIP(ip); a.IsValid() {
			out = append(out, a)
		}
	}
	return out
}
