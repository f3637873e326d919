package dedup

import (
	"testing"
	"time"
)

func TestSuppressesWithinTTL(t *testing.T) {
	d := New(time.Minute, 100)
	if !d.ShouldProcess("run-1/step-3") {
		t.Fatal("first sighting suppressed")
	}
	if d.ShouldProcess("run-1/step-3") {
		t.Fatal("duplicate not suppressed")
	}
	if !d.ShouldProcess("run-1/step-4") {
		t.Fatal("distinct ID suppressed")
	}
}

func TestExpiresAfterTTL(t *testing.T) {
	d := New(time.Minute, 100)
	now := time.Unix(1000, 0)
	d.SetClock(func() time.Time { return now })

	if !d.ShouldProcess("id") {
		t.Fatal("first sighting suppressed")
	}
	now = now.Add(2 * time.Minute)
	if !d.ShouldProcess("id") {
		t.Fatal("expired ID still suppressed")
	}
}

func TestEmptyIDAlwaysProcessed(t *testing.T) {
	d := New(time.Minute, 100)
	if !d.ShouldProcess("") || !d.ShouldProcess("") {
		t.Fatal("empty ID suppressed")
	}
}
