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

package tlschannel

// VerificationResult is a bitset of handshake verification failures (spec
// §4.6). Passed is the zero value: no bit set means no failure observed.
type VerificationResult uint8

const (
	Passed     VerificationResult = 0
	Expired    VerificationResult = 1 << 0
	Revoked    VerificationResult = 1 << 1
	CnMismatch VerificationResult = 1 << 2
	NotTrusted VerificationResult = 1 << 3
)

func (r VerificationResult) String() string {
	if r == Passed {
		return "Passed"
	}
	s := ""
	add := func(bit VerificationResult, name string) {
		if r&bit != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	add(Expired, "Expired")
	add(Revoked, "Revoked")
	add(CnMismatch, "CnMismatch")
	add(NotTrusted, "NotTrusted")
	return s
}

// State is the phase of a Channel's lifecycle.
type State uint8

const (
	StateNew State = iota
	StateHandshaking
	StateEstablished
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateHandshaking:
		return "Handshaking"
	case StateEstablished:
		return "Established"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	default:
		return "unknown"
	}
}
