package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testWaiter(probe displayProbe) *readyWaiter {
	return &readyWaiter{
		probe:    probe,
		settle:   time.Millisecond,
		interval: time.Millisecond,
		attempts: 5,
		logger:   zap.NewNop(),
	}
}

func TestReadyWaitReturnsWhenConnected(t *testing.T) {
	var calls atomic.Int32
	w := testWaiter(func() (bool, error) {
		calls.Add(1)
		return true, nil
	})
	w.Wait(context.Background())
	assert.Equal(t, int32(1), calls.Load())
}

func TestReadyWaitPollsUntilConnected(t *testing.T) {
	var calls atomic.Int32
	w := testWaiter(func() (bool, error) {
		return calls.Add(1) >= 3, nil
	})
	w.Wait(context.Background())
	assert.Equal(t, int32(3), calls.Load())
}

func TestReadyWaitGivesUpAfterBudget(t *testing.T) {
	var calls atomic.Int32
	w := testWaiter(func() (bool, error) {
		calls.Add(1)
		return false, nil
	})
	done := make(chan struct{})
	go func() {
		w.Wait(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter did not give up")
	}
	assert.Equal(t, int32(5), calls.Load())
}

func TestReadyWaitProbeErrorIsBestEffort(t *testing.T) {
	w := testWaiter(func() (bool, error) {
		return false, errors.New("enumerate failed")
	})
	done := make(chan struct{})
	go func() {
		w.Wait(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter did not return on probe errors")
	}
}

func TestReadyWaitCanceledDuringSettle(t *testing.T) {
	var calls atomic.Int32
	w := testWaiter(func() (bool, error) {
		calls.Add(1)
		return false, nil
	})
	w.settle = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	w.Wait(ctx)
	assert.Less(t, time.Since(start), time.Second)
	assert.Zero(t, calls.Load())
}
