package controllers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunPeriodicTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32

	done := make(chan struct{})
	go func() {
		RunPeriodicTask(ctx, PeriodicTask{
			Name:     "test",
			Interval: 5 * time.Millisecond,
			Task: func(ctx context.Context) error {
				if runs.Add(1) == 3 {
					cancel()
				}
				return errors.New("errors are logged, not fatal")
			},
		}, zap.NewNop().Sugar())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task did not stop after cancel")
	}

	if runs.Load() < 3 {
		t.Errorf("task ran %d times, want at least 3", runs.Load())
	}
}
