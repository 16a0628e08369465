package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func TestExecuteNeverRepeatsAFailedCall(t *testing.T) {
	exec := NewExecutor(Config{BreakerEnabled: false})

	attempts := 0
	errUpstream := errors.New("upstream down")
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		attempts++
		return errUpstream
	}, func(error) ErrorClassification {
		return ErrorClassification{RecordFailure: true}
	})
	if !errors.Is(err, errUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestExecuteHonoursCancelledContext(t *testing.T) {
	exec := NewExecutor(Config{BreakerEnabled: false})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := exec.Execute(ctx, "op", func(context.Context) error {
		t.Fatalf("operation must not run under a cancelled context")
		return nil
	}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	exec := NewExecutor(Config{
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	errUpstream := errors.New("upstream down")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{RecordFailure: true}
	}

	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "op", func(context.Context) error {
			return errUpstream
		}, classifier)
		if !errors.Is(err, errUpstream) {
			t.Fatalf("expected upstream error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	}, classifier)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state error, got %v", err)
	}
}

func TestExecuteIgnoresFailuresTheClassifierExcuses(t *testing.T) {
	exec := NewExecutor(Config{
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	})

	errClient := errors.New("bad request")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{RecordFailure: false}
	}

	for i := 0; i < 5; i++ {
		err := exec.Execute(context.Background(), "op", func(context.Context) error {
			return errClient
		}, classifier)
		if !errors.Is(err, errClient) {
			t.Fatalf("expected client error on iteration %d, got %v", i, err)
		}
	}
}
