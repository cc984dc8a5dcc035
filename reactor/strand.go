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

import (
	"sync"

	"github.com/google/uuid"

	"github.com/binary1248/sfnul-go/internal/metrics"
	"github.com/binary1248/sfnul-go/logger"
)

// Strand serializes callbacks for one resource across the pool's workers:
// at most one of its queued functions runs at any instant, no matter which
// worker picks it up, while callbacks queued on other strands run
// concurrently. This is the Go analogue of asio::strand in the original.
type Strand struct {
	pool *Pool
	id   uuid.UUID
	log  logger.Logger

	mu     sync.Mutex
	queue  []func()
	active bool
	closed bool
}

// ID returns the strand's correlation id, attached to every log line this
// strand and its owning resource emit.
func (s *Strand) ID() uuid.UUID { return s.id }

// Post enqueues fn to run on this strand. If the strand is idle, Post
// submits the drain loop to the pool; if a drain loop is already running
// for this strand, fn simply joins the queue it is working through.
func (s *Strand) Post(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, fn)
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	s.pool.post(s.drain)
}

func (s *Strand) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.active = false
			s.mu.Unlock()
			return
		}
		fn := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.pool.run(fn)
	}
}

// Close discards any queued-but-not-yet-run callbacks and marks the strand
// as terminal; further Post calls are no-ops. It does not block on a
// currently-executing drain loop, matching "close cancels any outstanding
// I/O on the resource" without requiring the close caller to wait on its
// own strand.
func (s *Strand) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.queue = nil
	s.mu.Unlock()

	metrics.ActiveStrands.Dec()
}
