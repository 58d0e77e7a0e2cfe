package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewSchedulerDefaults(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(&fakeReminderProcessor{}, "u1", 0, nil)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if s.interval != defaultReminderScanInterval {
		t.Fatalf("interval = %v, want default %v", s.interval, defaultReminderScanInterval)
	}
}

func TestNewSchedulerRequiresUser(t *testing.T) {
	t.Parallel()

	if _, err := NewScheduler(&fakeReminderProcessor{}, "  ", time.Minute, zap.NewNop()); err == nil {
		t.Fatal("expected an error for a blank user id")
	}
}

func TestSchedulerRunsImmediatelyAndStops(t *testing.T) {
	t.Parallel()

	ran := make(chan string, 1)
	processor := &fakeReminderProcessor{
		processFn: func(ctx context.Context, userID string, now time.Time) ProcessResult {
			select {
			case ran <- userID:
			default:
			}
			return ProcessResult{Success: true}
		},
	}

	s, err := NewScheduler(processor, "u1", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	select {
	case userID := <-ran:
		if userID != "u1" {
			t.Fatalf("processed user = %s, want u1", userID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not run the initial batch")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on context cancellation")
	}
}

func TestSchedulerSurvivesFailedRun(t *testing.T) {
	t.Parallel()

	processor := &fakeReminderProcessor{
		processFn: func(ctx context.Context, userID string, now time.Time) ProcessResult {
			return ProcessResult{Error: "settings store unreachable"}
		},
	}

	s, err := NewScheduler(processor, "u1", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	// A failed run logs and returns; it must not panic or abort.
	s.runOnce(context.Background())
}

type fakeReminderProcessor struct {
	processFn func(ctx context.Context, userID string, now time.Time) ProcessResult
}

func (f *fakeReminderProcessor) ProcessDueReminders(ctx context.Context, userID string, now time.Time) ProcessResult {
	if f.processFn != nil {
		return f.processFn(ctx, userID, now)
	}
	return ProcessResult{Success: true}
}
