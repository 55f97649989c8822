/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package session

import (
	"time"

	uuid "github.com/hashicorp/go-uuid"
)

// CookieName is the cookie the store issues and reads sessions under.
const CookieName = "session_id"

// Session is one record: creation and last-access timestamps, the
// absolute expiry computed from last access plus the store's timeout,
// and a free-form key/value bag.
type Session struct {
	ID         string
	Created    time.Time
	LastAccess time.Time
	Expires    time.Time
	Values     map[string]string
}

// Store is an in-memory, single-threaded session table. It is owned by
// the server engine's run loop and never accessed concurrently.
type Store struct {
	timeout time.Duration
	now     func() time.Time
	byID    map[string]*Session
}

// New returns a Store whose sessions expire timeout after their last
// access.
func New(timeout time.Duration) *Store {
	return NewWithClock(timeout, time.Now)
}

// NewWithClock is New with an injectable clock, for deterministic tests
// of sliding expiry.
func NewWithClock(timeout time.Duration, now func() time.Time) *Store {
	return &Store{timeout: timeout, now: now, byID: map[string]*Session{}}
}

// Touch returns the live session for id, sliding its expiry forward, or
// creates a fresh one (with a newly generated id) when id is empty,
// unknown, or expired. The returned Session.ID is always what the caller
// should set on the session_id cookie.
func (s *Store) Touch(id string) (*Session, error) {
	now := s.now()

	if id != "" {
		if sess, ok := s.byID[id]; ok && now.Before(sess.Expires) {
			sess.LastAccess = now
			sess.Expires = now.Add(s.timeout)
			return sess, nil
		}
		delete(s.byID, id)
	}

	newID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, ErrorGenerateID.Error(err)
	}

	sess := &Session{
		ID:         newID,
		Created:    now,
		LastAccess: now,
		Expires:    now.Add(s.timeout),
		Values:     map[string]string{},
	}
	s.byID[newID] = sess
	return sess, nil
}

// Get returns the session for id without sliding its expiry, reporting
// ErrorNotFound if it is absent or expired.
func (s *Store) Get(id string) (*Session, error) {
	sess, ok := s.byID[id]
	if !ok || !s.now().Before(sess.Expires) {
		return nil, ErrorNotFound.Error(nil)
	}
	return sess, nil
}

// Sweep removes every session whose expiry has passed, returning the
// number removed. Touch and Get already treat expired sessions as absent,
// so Sweep only bounds memory; the server's run loop does not call it.
func (s *Store) Sweep() int {
	now := s.now()
	removed := 0
	for id, sess := range s.byID {
		if !now.Before(sess.Expires) {
			delete(s.byID, id)
			removed++
		}
	}
	return removed
}

// Len reports how many sessions are currently tracked, expired or not.
func (s *Store) Len() int {
	return len(s.byID)
}

// Timeout reports the sliding-expiry duration new and touched sessions
// are granted, for callers that need to mirror it (e.g. a cookie's
// Max-Age).
func (s *Store) Timeout() time.Duration {
	return s.timeout
}
