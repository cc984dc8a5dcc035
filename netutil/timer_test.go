package netutil_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/binary1248/sfnul-go/netutil"
	"github.com/binary1248/sfnul-go/reactor"
)

func newPool(t *testing.T) *reactor.Pool {
	t.Helper()
	p := reactor.New(nil)
	if err := p.Start(2); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = p.Stop() })
	return p
}

func TestRepeatingTimerFiresMultipleTimes(t *testing.T) {
	pool := newPool(t)
	var count atomic.Int32

	tm := netutil.NewRepeating(pool, nil, 10*time.Millisecond, func(ctx context.Context) error {
		count.Add(1)
		return nil
	})

	ctx := context.Background()
	if err := tm.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !tm.IsRunning() {
		t.Fatal("expected IsRunning true after Start")
	}

	time.Sleep(120 * time.Millisecond)
	if err := tm.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if tm.IsRunning() {
		t.Fatal("expected IsRunning false after Stop")
	}
	if count.Load() < 3 {
		t.Fatalf("count = %d, want at least 3", count.Load())
	}
}

func TestOnceTimerFiresExactlyOnce(t *testing.T) {
	pool := newPool(t)
	var count atomic.Int32

	tm := netutil.NewOnce(pool, nil, 10*time.Millisecond, func(ctx context.Context) error {
		count.Add(1)
		return nil
	})

	ctx := context.Background()
	if err := tm.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if count.Load() != 1 {
		t.Fatalf("count = %d, want 1", count.Load())
	}
}

func TestTimerCollectsErrors(t *testing.T) {
	pool := newPool(t)
	boom := errors.New("boom")

	tm := netutil.NewRepeating(pool, nil, 10*time.Millisecond, func(ctx context.Context) error {
		return boom
	})

	ctx := context.Background()
	if err := tm.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	_ = tm.Stop()

	if !errors.Is(tm.ErrorsLast(), boom) {
		t.Fatalf("ErrorsLast = %v, want %v", tm.ErrorsLast(), boom)
	}
	if len(tm.ErrorsList()) == 0 {
		t.Fatal("ErrorsList is empty, want at least one recorded error")
	}
}

func TestTimerRestartClearsErrors(t *testing.T) {
	pool := newPool(t)
	attempt := atomic.Int32{}
	boom := errors.New("boom")

	tm := netutil.NewRepeating(pool, nil, 10*time.Millisecond, func(ctx context.Context) error {
		if attempt.Add(1) == 1 {
			return boom
		}
		return nil
	})

	ctx := context.Background()
	_ = tm.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	_ = tm.Stop()
	if tm.ErrorsLast() == nil {
		t.Fatal("expected an error recorded before Restart")
	}

	if err := tm.Restart(ctx); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	_ = tm.Stop()

	if tm.ErrorsLast() != nil {
		t.Fatalf("ErrorsLast after Restart = %v, want nil", tm.ErrorsLast())
	}
}
