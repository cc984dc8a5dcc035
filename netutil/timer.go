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

// Package netutil collects the small reactor-adjacent helpers spec §1's
// "misc. utilities" component names: a repeating/one-shot Timer and a
// non-cryptographic Random source for internal jitter.
package netutil

import (
	"context"
	"sync"
	"time"

	"github.com/binary1248/sfnul-go/logger"
	"github.com/binary1248/sfnul-go/reactor"
)

// TimerFunc is one Timer tick. Its error, if any, is recorded and does not
// stop the Timer; a one-shot Timer still only calls it once regardless of
// the returned error.
type TimerFunc func(ctx context.Context) error

// Timer fires fn once after a delay, or repeatedly at an interval, with
// every firing serialized onto a reactor Strand so it never overlaps its
// own previous firing or any other callback scheduled on the same Strand.
type Timer struct {
	pool     *reactor.Pool
	strand   *reactor.Strand
	alive    *reactor.Alive
	log      logger.Logger
	interval time.Duration
	repeat   bool
	fn       TimerFunc

	mu        sync.Mutex
	running   bool
	startedAt time.Time
	cancel    context.CancelFunc
	lastErr   error
	errs      []error
}

// NewRepeating returns a Timer that calls fn every interval until Stop.
// interval <= 0 is treated as 1ms, matching time.Ticker's own floor.
func NewRepeating(pool *reactor.Pool, log logger.Logger, interval time.Duration, fn TimerFunc) *Timer {
	return newTimer(pool, log, interval, true, fn)
}

// NewOnce returns a Timer that calls fn exactly once after delay.
func NewOnce(pool *reactor.Pool, log logger.Logger, delay time.Duration, fn TimerFunc) *Timer {
	return newTimer(pool, log, delay, false, fn)
}

func newTimer(pool *reactor.Pool, log logger.Logger, interval time.Duration, repeat bool, fn TimerFunc) *Timer {
	if log == nil {
		log = logger.Discard
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Timer{
		pool:     pool,
		strand:   pool.NewStrand(),
		alive:    reactor.NewAlive(),
		log:      log.WithFields(logger.Fields{"component": "netutil/timer"}),
		interval: interval,
		repeat:   repeat,
		fn:       fn,
	}
}

// Start begins firing. Calling Start on an already-running Timer is a
// no-op; Stop then Start again restarts it from a fresh interval and
// clears any collected errors.
func (t *Timer) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	t.running = true
	t.startedAt = time.Now()
	t.cancel = cancel
	t.errs = nil
	t.lastErr = nil
	t.mu.Unlock()

	go t.loop(runCtx)
	return nil
}

func (t *Timer) loop(ctx context.Context) {
	clock := time.NewTimer(t.interval)
	defer clock.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-clock.C:
			t.strand.Post(reactor.Guard(t.alive, func() {
				t.fire(ctx)
			}))
			if !t.repeat {
				return
			}
			clock.Reset(t.interval)
		}
	}
}

func (t *Timer) fire(ctx context.Context) {
	err := t.fn(ctx)
	if err == nil {
		return
	}
	t.mu.Lock()
	t.lastErr = err
	t.errs = append(t.errs, err)
	t.mu.Unlock()
	t.log.Warning("timer callback returned an error", logger.Fields{"error": err.Error()})
}

// Stop halts further firing. A firing already posted to the Strand still
// runs to completion. Safe to call on a Timer that was never started.
func (t *Timer) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	cancel := t.cancel
	t.mu.Unlock()

	cancel()
	return nil
}

// Restart stops and starts the Timer, clearing collected errors.
func (t *Timer) Restart(ctx context.Context) error {
	_ = t.Stop()
	return t.Start(ctx)
}

// IsRunning reports whether the Timer is currently firing.
func (t *Timer) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Uptime reports how long the Timer has been running since its last Start,
// or zero if it is not currently running.
func (t *Timer) Uptime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return 0
	}
	return time.Since(t.startedAt)
}

// ErrorsLast returns the most recent error fn returned, or nil if none.
func (t *Timer) ErrorsLast() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// ErrorsList returns every error fn has returned since the last Start.
func (t *Timer) ErrorsList() []error {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]error, len(t.errs))
	copy(out, t.errs)
	return out
}
