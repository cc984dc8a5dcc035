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
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/binary1248/sfnul-go/internal/metrics"
	"github.com/binary1248/sfnul-go/logger"
)

const defaultQueueDepth = 1024

// Pool is a worker pool that drives strand-scheduled callbacks (spec §4.1,
// §5). Start/Stop may be called repeatedly over the Pool's lifetime; both
// are idempotent no-ops when the pool is already in the requested state.
type Pool struct {
	log logger.Logger

	mu      sync.Mutex
	running bool
	tasks   chan func()
	ctx     context.Context
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// New creates a Pool that is not yet started. A nil log uses logger.Discard.
func New(log logger.Logger) *Pool {
	if log == nil {
		log = logger.Discard
	}
	return &Pool{log: log.WithFields(logger.Fields{"component": "reactor"})}
}

// Start begins processing with n worker goroutines. n < 1 is treated as 1.
func (p *Pool) Start(n int) error {
	if n < 1 {
		n = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)

	p.tasks = make(chan func(), defaultQueueDepth)
	p.ctx = ctx
	p.cancel = cancel
	p.group = group
	p.running = true

	for i := 0; i < n; i++ {
		group.Go(func() error {
			return p.worker(gctx)
		})
	}

	metrics.ActiveWorkers.Set(float64(n))
	p.log.Info("reactor started", logger.Fields{"workers": n})

	return nil
}

func (p *Pool) worker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn, ok := <-p.tasks:
			if !ok {
				return nil
			}
			p.run(fn)
		}
	}
}

// run invokes fn, recovering a panic into a Fatal-kind log line rather than
// letting one strand's invariant breach take the whole pool down (spec §7:
// Fatal "terminates the process with a diagnostic" is the caller's call at
// the process level, not this worker's).
func (p *Pool) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("strand callback panicked", logger.Fields{"panic": r})
		}
	}()
	fn()
}

// Stop cancels all outstanding work, drains the workers and releases pool
// state. It aggregates every worker's terminal error rather than reporting
// only the first, per the "report every failure" extension in the domain
// stack section of this module's design.
func (p *Pool) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	cancel := p.cancel
	tasks := p.tasks
	group := p.group
	p.mu.Unlock()

	cancel()
	close(tasks)

	var result *multierror.Error
	if err := group.Wait(); err != nil {
		result = multierror.Append(result, err)
	}

	metrics.ActiveWorkers.Set(0)
	p.log.Info("reactor stopped", nil)

	return result.ErrorOrNil()
}

// post schedules fn on the pool. It is a no-op once the pool has stopped,
// matching the reactor-level half of the weak-reference completion rule in
// spec §9: work posted after shutdown never runs.
func (p *Pool) post(fn func()) {
	p.mu.Lock()
	running := p.running
	tasks := p.tasks
	ctx := p.ctx
	p.mu.Unlock()

	if !running {
		return
	}

	select {
	case tasks <- fn:
	default:
		// Queue briefly full: never drop application-originated work
		// silently, so hand it off instead of blocking the caller. If
		// the pool stops before the channel accepts, ctx.Done() wins
		// the race and the callback is abandoned along with the rest
		// of the pool's outstanding work.
		go func() {
			select {
			case tasks <- fn:
			case <-ctx.Done():
			}
		}()
	}
}

// NewStrand allocates a new Strand bound to this pool, with a correlation
// id usable in log fields to trace every callback for one resource.
func (p *Pool) NewStrand() *Strand {
	id := uuid.New()
	metrics.ActiveStrands.Inc()
	return &Strand{
		pool: p,
		id:   id,
		log:  p.log.WithFields(logger.Fields{"strand_id": id.String()}),
	}
}
