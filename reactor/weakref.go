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

package reactor

import libatm "github.com/binary1248/sfnul-go/atomic"

// Alive is the weak-reference flag a Resource hands to every pending I/O
// completion it schedules (spec §9: "every async completion holds a weak
// reference to its resource; if the resource has been dropped before the
// completion fires, the callback is a no-op"). A Resource sets it false
// exactly once, from Close.
type Alive struct {
	flag libatm.Bool
}

// NewAlive returns a flag initialized to true.
func NewAlive() *Alive {
	a := &Alive{}
	a.flag.Store(true)
	return a
}

// Clear marks the resource dead. Safe to call more than once.
func (a *Alive) Clear() { a.flag.Store(false) }

// Load reports whether the resource is still alive.
func (a *Alive) Load() bool { return a.flag.Load() }

// Guard wraps fn so it becomes a no-op once alive reports false. Every
// completion a Resource posts to its Strand should be wrapped this way
// rather than calling fn directly.
func Guard(alive *Alive, fn func()) func() {
	return func() {
		if !alive.Load() {
			return
		}
		fn()
	}
}
