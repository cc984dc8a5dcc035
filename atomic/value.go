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

// Package atomic provides a small generic, lock-free value box used for the
// boolean flags of the reliable-transport half-close state machine
// (connected, local_fin_requested, local_fin_sent, remote_fin_received) and
// similar single-writer-many-reader state across the reactor and socket
// packages, instead of a mutex per flag.
package atomic

import "sync/atomic"

// Bool is a lock-free boolean flag with monotonic-set helpers matching the
// half-close invariant of spec §3 ("local_has_shutdown ... never transition
// from true to false"): SetTrue is the only mutator most callers need.
type Bool struct {
	v atomic.Bool
}

func (b *Bool) Load() bool        { return b.v.Load() }
func (b *Bool) Store(val bool)    { b.v.Store(val) }
func (b *Bool) SetTrue() (did bool) { return b.v.CompareAndSwap(false, true) }

// Int32 is a lock-free counter, used for queued-byte accounting
// (bytes_to_send / bytes_to_receive) where every mutation is a delta.
type Int32 struct {
	v atomic.Int32
}

func (i *Int32) Load() int32            { return i.v.Load() }
func (i *Int32) Store(val int32)        { i.v.Store(val) }
func (i *Int32) Add(delta int32) int32  { return i.v.Add(delta) }
func (i *Int32) CompareAndSwap(old, new int32) bool {
	return i.v.CompareAndSwap(old, new)
}

// Value is a generic lock-free box for small immutable values (enums,
// pointers, structs passed by value) that change less often than they are
// read - connection state machines, verification results, and the like.
type Value[T any] struct {
	v atomic.Value
}

// Load returns the zero value of T until the first Store.
func (b *Value[T]) Load() T {
	v := b.v.Load()
	if v == nil {
		var zero T
		return zero
	}
	return v.(boxed[T]).val
}

// Store records val. boxed[T] guarantees every Store carries the same
// concrete type even when T itself is an interface type, which plain
// atomic.Value forbids mixing.
func (b *Value[T]) Store(val T) {
	b.v.Store(boxed[T]{val})
}

type boxed[T any] struct{ val T }
