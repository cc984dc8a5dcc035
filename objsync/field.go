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

import (
	"sync"
	"time"

	"github.com/binary1248/sfnul-go/message"
)

// SyncClass is the synchronization class of one SyncedObject member (spec
// §3 "Synchronization classes").
type SyncClass uint8

const (
	// Static members transmit once, at Create, and never again.
	Static SyncClass = iota
	// Dynamic members transmit on every Update in which they were mutated
	// since their last transmission.
	Dynamic
	// Stream members transmit periodically regardless of mutation. An
	// Update carries a Stream member only once its period has elapsed; a
	// Dynamic change on the same object does not bring it along sooner.
	Stream
)

func (c SyncClass) String() string {
	switch c {
	case Static:
		return "Static"
	case Dynamic:
		return "Dynamic"
	case Stream:
		return "Stream"
	default:
		return "unknown"
	}
}

// StreamPeriod is the interval at which Stream members are due for
// retransmission (spec §3: "default 1000 ms, configurable"). It is read by
// every Server.Update call; change it before attaching objects whose timing
// matters.
var StreamPeriod = 1000 * time.Millisecond

// member is the type-erased view of a Field[T] that Object and Server/Client
// operate on without needing to know T.
type member interface {
	class() SyncClass
	modified() bool
	clearModified()
	encode(m *message.Message)
	decode(m *message.Message)
}

// Field is one typed, synchronized member of a SyncedObject (spec §3
// "members... (value, synchronization_class) pair"). T is serialized via
// the encode/decode functions supplied to NewField, so any wire shape
// (fixed-width integer, length-prefixed string, nested struct) fits.
type Field[T any] struct {
	owner  *Object
	class_ SyncClass

	mu       sync.Mutex
	value    T
	dirty    bool
	encodeFn func(*message.Message, T)
	decodeFn func(*message.Message) T
}

// NewField registers a new Field on owner and returns it. encode/decode are
// the wire serializers for T; see EncodeUint32/DecodeUint32,
// EncodeString/DecodeString and EncodeBool/DecodeBool for the common cases.
func NewField[T any](owner *Object, class SyncClass, initial T, encode func(*message.Message, T), decode func(*message.Message) T) *Field[T] {
	f := &Field[T]{
		owner:    owner,
		class_:   class,
		value:    initial,
		dirty:    true,
		encodeFn: encode,
		decodeFn: decode,
	}
	owner.registerMember(f)
	return f
}

// Get returns the field's current value.
func (f *Field[T]) Get() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Set assigns a new value. For a Dynamic field this marks the owning
// object's pending Update (collapsed per the server's usual create/update
// rules); Static and Stream fields do not trigger an out-of-band Update on
// Set, matching spec §3 (Static is create-only, Stream is time-driven).
func (f *Field[T]) Set(v T) {
	f.mu.Lock()
	f.value = v
	f.dirty = true
	class := f.class_
	f.mu.Unlock()

	if class == Dynamic {
		f.owner.notifyChanged()
	}
}

func (f *Field[T]) class() SyncClass { return f.class_ }

func (f *Field[T]) modified() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

func (f *Field[T]) clearModified() {
	f.mu.Lock()
	f.dirty = false
	f.mu.Unlock()
}

func (f *Field[T]) encode(m *message.Message) {
	f.mu.Lock()
	v := f.value
	f.mu.Unlock()
	f.encodeFn(m, v)
}

func (f *Field[T]) decode(m *message.Message) {
	v := f.decodeFn(m)
	f.mu.Lock()
	f.value = v
	f.dirty = false
	f.mu.Unlock()
}
