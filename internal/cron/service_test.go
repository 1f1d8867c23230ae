package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/dcplibrary/notices-backend/pkg/logger"
)

type fakeLock struct {
	acquired bool
	held     bool
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.held {
		return false, nil
	}
	f.acquired = true
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error { f.held = false; return nil }

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

type fakeCounter struct {
	counts map[string]int64
}

func (f *fakeCounter) Incr(_ context.Context, key string) (int64, error) {
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCounter) CounterKey(name string) string { return "counter:" + name }

func newCronTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

func TestServiceRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	aggregate := &testJob{name: "aggregate-daily-summaries"}
	cleanup := &testJob{name: "summary-cleanup", err: errors.New("boom")}
	registry := NewRegistry(aggregate, cleanup)

	service, err := NewService(ServiceParams{
		Logger:   newCronTestLogger(),
		Registry: registry,
		Lock:     &fakeLock{},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if aggregate.runs != 1 {
		t.Fatalf("expected aggregate job to run once, ran %d", aggregate.runs)
	}
	if cleanup.runs != 1 {
		t.Fatalf("expected cleanup job to run despite prior failure, ran %d", cleanup.runs)
	}
}

func TestServiceCountsSuccessfulRunsOnly(t *testing.T) {
	succeeding := &testJob{name: "aggregate-daily-summaries"}
	failing := &testJob{name: "summary-cleanup", err: errors.New("boom")}
	counter := &fakeCounter{}

	service, err := NewService(ServiceParams{
		Logger:   newCronTestLogger(),
		Registry: NewRegistry(succeeding, failing),
		Lock:     &fakeLock{},
		Counter:  counter,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if got := counter.counts["counter:cron-runs:aggregate-daily-summaries"]; got != 1 {
		t.Fatalf("expected one counted run, got %d", got)
	}
	if got := counter.counts["counter:cron-runs:summary-cleanup"]; got != 0 {
		t.Fatalf("failed runs must not be counted, got %d", got)
	}
}

func TestServiceRunCycleSkipsWhenLockHeld(t *testing.T) {
	job := &testJob{name: "aggregate-daily-summaries"}
	lock := &fakeLock{held: true}

	service, err := NewService(ServiceParams{
		Logger:   newCronTestLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job to be skipped while lock is held, ran %d", job.runs)
	}
}

func TestServiceReleasesLockAfterCycle(t *testing.T) {
	lock := &fakeLock{}
	service, err := NewService(ServiceParams{
		Logger:   newCronTestLogger(),
		Registry: NewRegistry(&testJob{name: "aggregate-daily-summaries"}),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if !lock.acquired {
		t.Fatal("expected the lock to be acquired")
	}
	if lock.held {
		t.Fatal("expected the lock to be released after the cycle")
	}
}
