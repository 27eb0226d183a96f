package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectFire(t *testing.T, d *debouncer, within time.Duration) {
	t.Helper()
	select {
	case <-d.C:
	case <-time.After(within):
		t.Fatal("expected a fire, got none")
	}
}

func expectNoFire(t *testing.T, d *debouncer, during time.Duration) {
	t.Helper()
	select {
	case <-d.C:
		t.Fatal("unexpected fire")
	case <-time.After(during):
	}
}

func TestDebounceBurstFiresOnce(t *testing.T) {
	d := newDebouncer(60 * time.Millisecond)
	defer d.Stop()

	for i := 0; i < 3; i++ {
		d.Arm()
		time.Sleep(10 * time.Millisecond)
	}
	expectFire(t, d, 200*time.Millisecond)
	expectNoFire(t, d, 150*time.Millisecond)
}

func TestDebounceRearmReplacesCountdown(t *testing.T) {
	d := newDebouncer(100 * time.Millisecond)
	defer d.Stop()

	d.Arm()
	time.Sleep(60 * time.Millisecond)
	d.Arm()
	// first countdown would have elapsed by now; it must not fire
	expectNoFire(t, d, 60*time.Millisecond)
	expectFire(t, d, 200*time.Millisecond)
}

func TestDebounceZeroDelayFiresImmediately(t *testing.T) {
	d := newDebouncer(0)
	defer d.Stop()

	d.Arm()
	select {
	case <-d.C:
	default:
		t.Fatal("zero delay should fire from Arm itself")
	}
}

func TestDebounceStopCancelsPending(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	d.Arm()
	d.Stop()
	expectNoFire(t, d, 100*time.Millisecond)

	// arming after Stop is a no-op
	d.Arm()
	expectNoFire(t, d, 100*time.Millisecond)
}

func TestDebounceUndrainedFireCoalesces(t *testing.T) {
	d := newDebouncer(0)
	defer d.Stop()

	d.Arm()
	d.Arm()
	d.Arm()
	require.Len(t, d.fires, 1)
	<-d.C
	assert.Empty(t, d.fires)
}

func TestDebounceConcurrentArm(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.Stop()

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			for j := 0; j < 25; j++ {
				d.Arm()
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
	expectFire(t, d, 200*time.Millisecond)
	expectNoFire(t, d, 100*time.Millisecond)
}
