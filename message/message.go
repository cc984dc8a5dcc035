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

// Package message holds Message, the ordered byte buffer passed between the
// transport layer and application code (spec §3 "Message"), plus the
// fixed-width and length-prefixed wire serializers used by the Link and
// Synchronizer protocols on top of it.
package message

// Message is an ordered sequence of bytes that supports amortized O(1)
// push/pop at both ends, the same access pattern the original gave a
// std::deque<unsigned char> for. It is not safe for concurrent use; callers
// that share a Message across goroutines must hold their own lock, the way
// every other value type in this module works.
type Message struct {
	data []byte
	// off is the logical start of the content within data, so PopFront can
	// be O(1) instead of reslicing the backing array on every call.
	off int
}

// New returns an empty Message, optionally seeded with data (copied).
func New(data ...byte) *Message {
	m := &Message{}
	if len(data) > 0 {
		m.Append(data)
	}
	return m
}

// Clear discards all content.
func (m *Message) Clear() {
	m.data = m.data[:0]
	m.off = 0
}

// Size returns the number of bytes currently held.
func (m *Message) Size() uint32 {
	return uint32(len(m.data) - m.off)
}

// Append copies data onto the back of the message.
func (m *Message) Append(data []byte) {
	m.data = append(m.data, data...)
}

// Prepend copies data onto the front of the message.
func (m *Message) Prepend(data []byte) {
	if m.off >= len(data) {
		m.off -= len(data)
		copy(m.data[m.off:], data)
		return
	}
	combined := make([]byte, len(data)+m.sizeInt())
	copy(combined, data)
	copy(combined[len(data):], m.data[m.off:])
	m.data = combined
	m.off = 0
}

func (m *Message) sizeInt() int { return len(m.data) - m.off }

// GetFront returns a copy of the first n bytes without removing them.
func (m *Message) GetFront(n int) []byte {
	out := make([]byte, n)
	copy(out, m.data[m.off:m.off+n])
	return out
}

// GetBack returns a copy of the last n bytes without removing them.
func (m *Message) GetBack(n int) []byte {
	end := len(m.data)
	out := make([]byte, n)
	copy(out, m.data[end-n:end])
	return out
}

// PopFront removes the first n bytes.
func (m *Message) PopFront(n int) {
	m.off += n
	if m.off == len(m.data) {
		m.data = m.data[:0]
		m.off = 0
	}
}

// PopBack removes the last n bytes.
func (m *Message) PopBack(n int) {
	m.data = m.data[:len(m.data)-n]
}

// Bytes returns the live content as a read-only view; callers must not
// retain it across a subsequent mutating call on m.
func (m *Message) Bytes() []byte {
	return m.data[m.off:]
}
