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

package objsync

import "github.com/binary1248/sfnul-go/message"

func popUint8(m *message.Message) uint8 {
	v := m.GetUint8()
	m.PopFront(1)
	return v
}

func popUint32(m *message.Message) uint32 {
	v := m.GetUint32LE()
	m.PopFront(4)
	return v
}

func putUint32(m *message.Message, v uint32) {
	m.PutUint32LE(v)
}

// EncodeString appends s as a length-prefixed block, the shape every
// variable-width field value (string, raw bytes) uses on the wire.
func EncodeString(m *message.Message, s string) {
	m.Append(message.Frame([]byte(s)))
}

// DecodeString pops one length-prefixed block from the front of m and
// returns it as a string.
func DecodeString(m *message.Message) string {
	payload, ok := message.Unframe(m)
	if !ok {
		return ""
	}
	return string(payload)
}

// EncodeUint32 appends a 4-byte little-endian value, the width used for
// object/type ids and any application field that fits u32.
func EncodeUint32(m *message.Message, v uint32) {
	putUint32(m, v)
}

// DecodeUint32 pops a 4-byte little-endian value from the front of m.
func DecodeUint32(m *message.Message) uint32 {
	return popUint32(m)
}

// EncodeBool appends a single byte, 1 for true and 0 for false.
func EncodeBool(m *message.Message, v bool) {
	if v {
		m.PutUint8(1)
	} else {
		m.PutUint8(0)
	}
}

// DecodeBool pops a single byte and reports whether it was non-zero.
func DecodeBool(m *message.Message) bool {
	return popUint8(m) != 0
}
