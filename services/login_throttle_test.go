package services

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCooldownSecondsForFailCount(t *testing.T) {
	tests := []struct {
		failCount int
		want      int
	}{
		{0, 1},   // 2^0=1
		{1, 2},   // 2^1=2
		{2, 4},   // 2^2=4
		{3, 8},   // 2^3=8
		{4, 16},  // 2^4=16
		{5, 30},  // 2^5=32 -> cap 30
		{6, 30},  // 2^6=64 -> cap 30
		{10, 30}, // cap 30
	}
	for _, tt := range tests {
		got := CooldownSecondsForFailCount(tt.failCount)
		if got != tt.want {
			t.Errorf("CooldownSecondsForFailCount(%d) = %d, want %d", tt.failCount, got, tt.want)
		}
	}
}

func TestLoginThrottle(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	th := NewLoginThrottle()
	th.now = func() time.Time { return now }
	const user int64 = 999999997

	if wait := th.WaitSeconds(user); wait != 0 {
		t.Fatalf("fresh user: wait = %d, want 0", wait)
	}

	if wait := th.Attempt(user); wait != 0 {
		t.Fatalf("first attempt: wait = %d, want 0", wait)
	}
	if wait := th.WaitSeconds(user); wait <= 0 || wait > 3 {
		t.Errorf("after one attempt: wait = %d, want ~2", wait)
	}
	if wait := th.Attempt(user); wait <= 0 {
		t.Error("attempt during cooldown must be refused")
	}

	// Cooldown expires.
	now = now.Add(3 * time.Second)
	if wait := th.WaitSeconds(user); wait != 0 {
		t.Errorf("after cooldown expired: wait = %d, want 0", wait)
	}

	// Success resets.
	th.Attempt(user)
	th.RecordSuccess(user)
	if wait := th.WaitSeconds(user); wait != 0 {
		t.Errorf("after attempt then success: wait = %d, want 0", wait)
	}

	// Cap at 30s.
	for i := 0; i < 8; i++ {
		if wait := th.Attempt(user); wait != 0 {
			t.Fatalf("attempt %d after cooldown: wait = %d", i+1, wait)
		}
		if i < 7 {
			now = now.Add((ThrottleCooldownCapSeconds + 1) * time.Second)
		}
	}
	if wait := th.WaitSeconds(user); wait <= 0 || wait > ThrottleCooldownCapSeconds+1 {
		t.Errorf("after 8 fails: wait = %d, want <= cap", wait)
	}
}

func TestLoginThrottle_ConcurrentAttempts(t *testing.T) {
	th := NewLoginThrottle()
	const user int64 = 5
	const n = 32

	var admitted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if th.Attempt(user) == 0 {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()
	if got := admitted.Load(); got != 1 {
		t.Errorf("admitted %d concurrent attempts, want 1", got)
	}
}
