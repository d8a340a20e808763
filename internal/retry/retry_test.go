package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

var errTransient = errors.New("transient")

func transient(err error) bool {
	return errors.Is(err, errTransient)
}

// TestDo_Success verifies a succeeding call runs exactly once.
func TestDo_Success(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, transient, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("expected nil error, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

// TestDo_NonTransientNoRetry verifies non-transient errors propagate immediately.
func TestDo_NonTransientNoRetry(t *testing.T) {
	fatal := errors.New("permission denied")
	calls := 0
	err := Do(context.Background(), 5, transient, func() error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected the original error, got: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call (no retry), got %d", calls)
	}
}

// TestDo_TransientExactBudget verifies k transient failures succeed with
// retries=k and fail with retries=k-1.
func TestDo_TransientExactBudget(t *testing.T) {
	for k := 1; k <= 3; k++ {
		failures := 0
		op := func() error {
			if failures < k {
				failures++
				return fmt.Errorf("attempt %d: %w", failures, errTransient)
			}
			return nil
		}

		if err := Do(context.Background(), k, transient, op); err != nil {
			t.Errorf("retries=%d with %d failures: expected success, got %v", k, k, err)
		}

		failures = 0
		err := Do(context.Background(), k-1, transient, op)
		if err == nil {
			t.Errorf("retries=%d with %d failures: expected error", k-1, k)
		}
		if err != nil && !errors.Is(err, errTransient) {
			t.Errorf("final error should be the last attempt's error unchanged, got %v", err)
		}
	}
}

// TestDo_FinalErrorUnchanged verifies exhaustion returns the last error as-is.
func TestDo_FinalErrorUnchanged(t *testing.T) {
	last := fmt.Errorf("boom: %w", errTransient)
	err := Do(context.Background(), 2, transient, func() error {
		return last
	})
	if err != last {
		t.Fatalf("expected the last error unwrapped and unchanged, got %v", err)
	}
}

// TestDo_NegativeRetriesSingleAttempt verifies negative counts clamp to one attempt.
func TestDo_NegativeRetriesSingleAttempt(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), -5, transient, func() error {
		calls++
		return errTransient
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

// TestDo_ContextCancelled verifies a cancelled context stops further attempts.
func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, 10, transient, func() error {
		calls++
		cancel()
		return errTransient
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation took effect, got %d", calls)
	}
}

// TestPolicy_OnRetryCalledPerRetry verifies the callback fires once per retry.
func TestPolicy_OnRetryCalledPerRetry(t *testing.T) {
	var attempts []int
	p := Policy{
		Retries:   2,
		Transient: transient,
		OnRetry: func(attempt int, err error) {
			attempts = append(attempts, attempt)
		},
	}
	_ = p.Do(context.Background(), func() error { return errTransient })
	if len(attempts) != 2 {
		t.Fatalf("expected 2 retry callbacks, got %d", len(attempts))
	}
	if attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("unexpected attempt numbering: %v", attempts)
	}
}
