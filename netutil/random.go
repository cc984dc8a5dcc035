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

package netutil

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Random is a non-cryptographic, seedable random source, safe for
// concurrent use. It exists only for internal jitter (reconnect backoff,
// load-shedding among equivalent peers); never use it where the spec calls
// for cryptographic randomness, which is crypto/tls's concern in this
// module, not netutil's.
type Random struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRandom returns a Random seeded deterministically from seed. Two
// Randoms constructed with the same seed produce the same sequence.
func NewRandom(seed uint64) *Random {
	return &Random{src: rand.New(rand.NewPCG(seed, seed))}
}

// NewRandomSeeded returns a Random seeded from the current time, suitable
// when reproducibility does not matter.
func NewRandomSeeded() *Random {
	now := uint64(time.Now().UnixNano())
	return NewRandom(now)
}

// Int63n returns a pseudo-random value in [0, n). It panics if n <= 0.
func (r *Random) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Int64N(n)
}

// Jitter returns a duration in [0, max). It panics if max <= 0.
func (r *Random) Jitter(max time.Duration) time.Duration {
	return time.Duration(r.Int63n(int64(max)))
}

// Backoff returns base plus a random jitter in [0, base/2], capped at max.
// A typical reconnect loop calls this once per failed attempt and sleeps
// the result.
func (r *Random) Backoff(base, max time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delay := base + r.Jitter(base/2+1)
	if delay > max {
		return max
	}
	return delay
}
