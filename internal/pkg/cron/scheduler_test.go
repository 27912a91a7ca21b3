package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunOnce_ExecutesAllJobs(t *testing.T) {
	s := NewScheduler()

	var first, second atomic.Int32
	s.Register(Job{Name: "first", Interval: time.Hour, Fn: func(ctx context.Context) error {
		first.Add(1)
		return nil
	}})
	s.Register(Job{Name: "second", Interval: time.Hour, RunOnStart: true, Fn: func(ctx context.Context) error {
		second.Add(1)
		return nil
	}})

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), first.Load())
	assert.Equal(t, int32(1), second.Load())
}

// Only jobs flagged RunOnStart fire before their first tick
func TestStart_RunOnStart(t *testing.T) {
	s := NewScheduler()

	var deferred atomic.Int32
	immediate := make(chan struct{}, 1)

	s.Register(Job{Name: "deferred", Interval: time.Hour, Fn: func(ctx context.Context) error {
		deferred.Add(1)
		return nil
	}})
	s.Register(Job{Name: "immediate", Interval: time.Hour, RunOnStart: true, Fn: func(ctx context.Context) error {
		select {
		case immediate <- struct{}{}:
		default:
		}
		return nil
	}})

	s.Start()
	defer s.Stop()

	select {
	case <-immediate:
	case <-time.After(2 * time.Second):
		t.Fatal("RunOnStart job did not fire")
	}

	assert.Equal(t, int32(0), deferred.Load())
}

func TestStop_WaitsForJobs(t *testing.T) {
	s := NewScheduler()

	done := make(chan struct{}, 1)
	s.Register(Job{Name: "noop", Interval: time.Hour, RunOnStart: true, Fn: func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	}})

	s.Start()
	<-done
	s.Stop()
}
