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

package message

import "encoding/binary"

// PutUint32LE appends a 4-byte little-endian length prefix, the framing unit
// Link uses ahead of every stream segment's payload.
func (m *Message) PutUint32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	m.Append(b[:])
}

// GetUint32LE reads a 4-byte little-endian value from the front without
// removing it; the caller follows with PopFront(4) once consumed.
func (m *Message) GetUint32LE() uint32 {
	return binary.LittleEndian.Uint32(m.GetFront(4))
}

// PutUint8 appends a single byte, the width Link's stream_id field uses.
func (m *Message) PutUint8(v uint8) {
	m.Append([]byte{v})
}

// GetUint8 reads the leading byte without removing it.
func (m *Message) GetUint8() uint8 {
	return m.GetFront(1)[0]
}

// Frame renders a length-prefixed segment: a 4-byte little-endian payload
// length followed by payload, the shape every Link stream segment and every
// Synchronizer record carries on top of its own header bytes.
func Frame(payload []byte) []byte {
	out := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(out, uint32(len(payload)))
	copy(out[4:], payload)
	return out
}

// Unframe strips one length-prefixed segment from the front of m, returning
// the payload and true, or false if m does not yet hold a complete frame.
func Unframe(m *Message) ([]byte, bool) {
	if m.Size() < 4 {
		return nil, false
	}
	length := m.GetUint32LE()
	if m.Size() < 4+length {
		return nil, false
	}
	m.PopFront(4)
	payload := m.GetFront(int(length))
	m.PopFront(int(length))
	return payload, true
}
