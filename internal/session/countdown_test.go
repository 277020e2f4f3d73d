package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestGateFiresOnce(t *testing.T) {
	var fired int32
	NewGate(5*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&fired) == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	// Give a cancelled-or-duplicate fire a chance to show up.
	time.Sleep(20 * time.Millisecond)

	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Fatalf("gate fired %d times, want 1", n)
	}
}

func TestGateCancelSuppressesFire(t *testing.T) {
	var fired int32
	g := NewGate(20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	g.Cancel()

	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Fatalf("cancelled gate fired %d times", n)
	}
}

func TestGateCancelIsIdempotent(t *testing.T) {
	g := NewGate(time.Hour, func() {})
	g.Cancel()
	g.Cancel()

	// Cancelling after the fire must also be harmless.
	done := make(chan struct{})
	g2 := NewGate(0, func() { close(done) })
	<-done
	g2.Cancel()
}
