package monitor

import (
	"testing"
	"time"
)

func TestWithinCooldown(t *testing.T) {
	now := time.Now()
	if !WithinCooldown(now.Add(-2*time.Second), now, 5*time.Second) {
		t.Fatalf("expected within cooldown")
	}
}

func TestWithinCooldownExpired(t *testing.T) {
	now := time.Now()
	if WithinCooldown(now.Add(-6*time.Second), now, 5*time.Second) {
		t.Fatalf("expected cooldown expired")
	}
}

func TestWithinCooldownBoundaryInclusive(t *testing.T) {
	now := time.Now()
	if !WithinCooldown(now.Add(-5*time.Second), now, 5*time.Second) {
		t.Fatalf("boundary must still suppress")
	}
}

func TestWithinCooldownZeroLast(t *testing.T) {
	if WithinCooldown(time.Time{}, time.Now(), 5*time.Second) {
		t.Fatalf("zero last must not be within cooldown")
	}
}
