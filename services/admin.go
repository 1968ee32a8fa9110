package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrLoginDisabled = errors.New("admin login is disabled")
	ErrWrongPassword = errors.New("wrong password")
)

// ThrottledError is returned by Login while the user is in a cooldown.
type ThrottledError struct {
	Seconds int
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("too many attempts, retry in %ds", e.Seconds)
}

// AdminAuth decides who may change image bindings. Users listed in ADMIN_IDS
// are always admins; anyone else needs a /login session, which expires.
type AdminAuth struct {
	ids      map[int64]struct{}
	hash     []byte
	ttl      time.Duration
	throttle *LoginThrottle

	mu       sync.RWMutex
	sessions map[int64]time.Time // user -> session expiry
	now      func() time.Time
}

func NewAdminAuth(ids []int64, passwordHash string, ttl time.Duration) *AdminAuth {
	a := &AdminAuth{
		ids:      make(map[int64]struct{}, len(ids)),
		ttl:      ttl,
		throttle: NewLoginThrottle(),
		sessions: make(map[int64]time.Time),
		now:      time.Now,
	}
	if passwordHash != "" {
		a.hash = []byte(passwordHash)
	}
	for _, id := range ids {
		a.ids[id] = struct{}{}
	}
	return a
}

func (a *AdminAuth) IsAdmin(userID int64) bool {
	if _, ok := a.ids[userID]; ok {
		return true
	}
	a.mu.RLock()
	exp, ok := a.sessions[userID]
	a.mu.RUnlock()
	return ok && a.now().Before(exp)
}

// LoginEnabled reports whether a password hash is configured.
func (a *AdminAuth) LoginEnabled() bool {
	return len(a.hash) > 0
}

// Login checks password and opens a session. Errors: ErrLoginDisabled,
// ErrWrongPassword or *ThrottledError.
func (a *AdminAuth) Login(userID int64, password string) error {
	if !a.LoginEnabled() {
		return ErrLoginDisabled
	}
	if wait := a.throttle.Attempt(userID); wait > 0 {
		return &ThrottledError{Seconds: wait}
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return ErrWrongPassword
	}
	a.throttle.RecordSuccess(userID)

	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	for id, exp := range a.sessions {
		if !now.Before(exp) {
			delete(a.sessions, id)
		}
	}
	a.sessions[userID] = now.Add(a.ttl)
	return nil
}

func (a *AdminAuth) Logout(userID int64) {
	a.mu.Lock()
	delete(a.sessions, userID)
	a.mu.Unlock()
}
