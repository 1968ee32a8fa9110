package services

import (
	"math"
	"sync"
	"time"
)

const ThrottleCooldownCapSeconds = 30

// LoginThrottle slows down password guessing on /login: every failure sets a
// cooldown of min(30, 2^fail_count) seconds; a success resets the counter.
type LoginThrottle struct {
	mu    sync.Mutex
	state map[int64]throttleState
	now   func() time.Time
}

type throttleState struct {
	failCount     int
	cooldownUntil time.Time
}

func NewLoginThrottle() *LoginThrottle {
	return &LoginThrottle{state: make(map[int64]throttleState), now: time.Now}
}

// WaitSeconds returns how many seconds the user must wait before trying again (0 if no cooldown).
func (t *LoginThrottle) WaitSeconds(userID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.waitLocked(userID, t.now())
}

// Attempt admits one password check. While a cooldown runs it returns the
// seconds left and admits nothing. Otherwise it counts the attempt as a
// failure up front and returns 0; RecordSuccess undoes that. Check and
// reservation share one critical section, so concurrent attempts from the
// same user cannot both pass.
func (t *LoginThrottle) Attempt(userID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if wait := t.waitLocked(userID, now); wait > 0 {
		return wait
	}
	st := t.state[userID]
	st.failCount++
	st.cooldownUntil = now.Add(time.Duration(CooldownSecondsForFailCount(st.failCount)) * time.Second)
	t.state[userID] = st
	return 0
}

func (t *LoginThrottle) waitLocked(userID int64, now time.Time) int {
	st, ok := t.state[userID]
	if !ok || !now.Before(st.cooldownUntil) {
		return 0
	}
	return int(st.cooldownUntil.Sub(now).Seconds()) + 1 // round up
}

// RecordSuccess clears the user's failures.
func (t *LoginThrottle) RecordSuccess(userID int64) {
	t.mu.Lock()
	delete(t.state, userID)
	t.mu.Unlock()
}

// CooldownSecondsForFailCount returns min(30, 2^failCount).
func CooldownSecondsForFailCount(failCount int) int {
	s := math.Pow(2, float64(failCount))
	if s > ThrottleCooldownCapSeconds {
		return ThrottleCooldownCapSeconds
	}
	return int(s)
}
