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

package errors

// Networking error kinds, spec §7. Transient conditions are never returned
// as one of these - they surface as a zero-byte read or a false accept.
const (
	// KindRemoteClosed marks a peer EOF or TLS close-notify. Non-fatal.
	KindRemoteClosed CodeError = 1000 + iota
	// KindConnectionReset marks a reset/aborted/timed-out transport.
	KindConnectionReset
	// KindInvalidArgument marks a bad address or bad certificate/key material.
	KindInvalidArgument
	// KindProtocolViolation marks a Link or Synchronizer framing error.
	KindProtocolViolation
	// KindTLSVerification marks a handshake verification failure.
	KindTLSVerification
	// KindResourceExhaustion marks a send/receive queue at its hard limit.
	KindResourceExhaustion
	// KindFatal marks an invariant breach; the caller should treat the
	// owning resource as unusable and the process as unhealthy.
	KindFatal
)

func init() {
	RegisterIdFctMessage(KindRemoteClosed, func(CodeError) string { return "remote peer closed the connection" })
	RegisterIdFctMessage(KindConnectionReset, func(CodeError) string { return "connection reset" })
	RegisterIdFctMessage(KindInvalidArgument, func(CodeError) string { return "invalid argument" })
	RegisterIdFctMessage(KindProtocolViolation, func(CodeError) string { return "protocol violation" })
	RegisterIdFctMessage(KindTLSVerification, func(CodeError) string { return "tls verification failed" })
	RegisterIdFctMessage(KindResourceExhaustion, func(CodeError) string { return "resource exhausted" })
	RegisterIdFctMessage(KindFatal, func(CodeError) string { return "fatal internal error" })
}
