package tasks

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCleaner struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakeCleaner) DeleteOldEvents(olderThan time.Time) (int64, error) {
	f.cutoff = olderThan
	return f.deleted, f.err
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	cleaner := &fakeCleaner{deleted: 3}
	processor := CleanupAuditEventsProcessor(cleaner)

	err := processor(context.Background(), CleanupAuditEventsTask{RetentionDays: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Now().Add(-7 * 24 * time.Hour)
	if diff := cleaner.cutoff.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expected cutoff around %v, got %v", want, cleaner.cutoff)
	}
}

func TestCleanupAuditEventsProcessor_DefaultsRetention(t *testing.T) {
	cleaner := &fakeCleaner{}
	processor := CleanupAuditEventsProcessor(cleaner)

	if err := processor(context.Background(), CleanupAuditEventsTask{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Now().Add(-30 * 24 * time.Hour)
	if diff := cleaner.cutoff.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expected 30 day default cutoff, got %v", cleaner.cutoff)
	}
}

func TestCleanupAuditEventsProcessor_PropagatesError(t *testing.T) {
	cleaner := &fakeCleaner{err: errors.New("database locked")}
	processor := CleanupAuditEventsProcessor(cleaner)

	if err := processor(context.Background(), CleanupAuditEventsTask{}); err == nil {
		t.Fatal("expected error from cleaner")
	}
}

func TestCleanupAuditEventsProcessor_NilCleaner(t *testing.T) {
	processor := CleanupAuditEventsProcessor(nil)
	if err := processor(context.Background(), CleanupAuditEventsTask{}); err == nil {
		t.Fatal("expected error for missing cleaner")
	}
}

type fakeSweeper struct {
	dropped int
	calls   int
}

func (f *fakeSweeper) Sweep() int {
	f.calls++
	return f.dropped
}

func TestSweepSignupAttemptsProcessor(t *testing.T) {
	sweeper := &fakeSweeper{dropped: 2}
	processor := SweepSignupAttemptsProcessor(sweeper)

	if err := processor(context.Background(), SweepSignupAttemptsTask{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sweeper.calls != 1 {
		t.Errorf("expected one sweep, got %d", sweeper.calls)
	}
}

func TestSweepSignupAttemptsProcessor_NilSweeper(t *testing.T) {
	processor := SweepSignupAttemptsProcessor(nil)
	if err := processor(context.Background(), SweepSignupAttemptsTask{}); err == nil {
		t.Fatal("expected error for missing sweeper")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Workers)
	}
	if cfg.ReleaseAfter != 15*time.Minute {
		t.Errorf("unexpected release after: %v", cfg.ReleaseAfter)
	}
}
