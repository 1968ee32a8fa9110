package services

import (
	"sync"
	"time"
)

// UploadSessions remembers which image key an admin is about to upload a
// photo for. A session is consumed by the next photo or dropped after ttl.
type UploadSessions struct {
	ttl time.Duration

	mu       sync.Mutex
	sessions map[int64]uploadSession
	now      func() time.Time
}

type uploadSession struct {
	key     string
	expires time.Time
}

func NewUploadSessions(ttl time.Duration) *UploadSessions {
	return &UploadSessions{ttl: ttl, sessions: make(map[int64]uploadSession), now: time.Now}
}

// Begin starts (or replaces) the user's session for key.
func (s *UploadSessions) Begin(userID int64, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, sess := range s.sessions {
		if !now.Before(sess.expires) {
			delete(s.sessions, id)
		}
	}
	s.sessions[userID] = uploadSession{key: key, expires: now.Add(s.ttl)}
}

// Take consumes the user's session, returning its key if it has not expired.
func (s *UploadSessions) Take(userID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return "", false
	}
	delete(s.sessions, userID)
	if !s.now().Before(sess.expires) {
		return "", false
	}
	return sess.key, true
}

// Cancel drops the user's session and reports whether one was pending.
func (s *UploadSessions) Cancel(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok && s.now().Before(sess.expires)
}
