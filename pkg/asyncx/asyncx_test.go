package asyncx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/gatekeeper/pkg/asyncx"
)

func TestRunAwait(t *testing.T) {
	fut := asyncx.Run(func() (int, error) {
		return 42, nil
	})

	v, err := fut.Await()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestAll_CollectsResults(t *testing.T) {
	results, err := asyncx.All(context.Background(),
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context) (int, error) { return 2, nil },
		func(context.Context) (int, error) { return 3, nil },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

func TestAll_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := asyncx.All(context.Background(),
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context) (int, error) { return 0, boom },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestGate_BoundsConcurrency(t *testing.T) {
	gate := asyncx.NewGate(1)
	ctx := context.Background()

	release := make(chan struct{})
	fut, err := asyncx.Go(ctx, gate, func() (struct{}, error) {
		<-release
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("first Go: %v", err)
	}

	// The single slot is held, so a second Go with an expired context must
	// give up on acquisition.
	expired, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if _, err := asyncx.Go(expired, gate, func() (struct{}, error) {
		return struct{}{}, nil
	}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	close(release)
	if _, err := fut.Await(); err != nil {
		t.Fatalf("held computation failed: %v", err)
	}

	// Slot released: the gate admits work again.
	fut2, err := asyncx.Go(ctx, gate, func() (struct{}, error) {
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("Go after release: %v", err)
	}
	if _, err := fut2.Await(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	v, err := asyncx.Retry(context.Background(), 3, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 7, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 7 || calls != 3 {
		t.Fatalf("got v=%d calls=%d", v, calls)
	}
}

func TestRetry_ReturnsLastError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := asyncx.Retry(context.Background(), 3, func(context.Context) (int, error) {
		calls++
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRetry_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := asyncx.Retry(ctx, 3, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no attempts on a dead context, got %d", calls)
	}
}

func TestAwaitCtx_RespectsCancellation(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	fut := asyncx.Run(func() (int, error) {
		<-release
		return 0, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := fut.AwaitCtx(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
