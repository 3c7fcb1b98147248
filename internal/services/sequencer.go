package services

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// slot tracks the newest request of one session. commit serializes the
// commits of that session only.
type slot struct {
	commit sync.Mutex
	token  uint64
	cancel context.CancelFunc
}

// Sequencer hands out a monotonically increasing token per request and keeps
// only the newest request of each session alive.
type Sequencer struct {
	mu    sync.Mutex
	slots map[string]*slot
	next  atomic.Uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{slots: make(map[string]*slot)}
}

// Begin registers a new request for session and cancels the one it
// supersedes. done must be called when the request is finished.
func (s *Sequencer) Begin(ctx context.Context, session string) (reqCtx context.Context, token uint64, done func()) {
	reqCtx, cancel := context.WithCancel(ctx)
	token = s.next.Inc()

	s.mu.Lock()
	cur, ok := s.slots[session]
	if ok {
		cur.cancel()
	} else {
		cur = &slot{}
		s.slots[session] = cur
	}
	cur.token = token
	cur.cancel = cancel
	s.mu.Unlock()

	done = func() {
		cancel()
		s.mu.Lock()
		if cur, ok := s.slots[session]; ok && cur.token == token {
			delete(s.slots, session)
		}
		s.mu.Unlock()
	}
	return reqCtx, token, done
}

func (s *Sequencer) IsCurrent(session string, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked(session, token) != nil
}

func (s *Sequencer) currentLocked(session string, token uint64) *slot {
	cur, ok := s.slots[session]
	if !ok || cur.token != token {
		return nil
	}
	return cur
}

// Commit runs apply only while token is still the newest request of session.
// Commits of one session never overlap; other sessions are not held up while
// apply runs.
func (s *Sequencer) Commit(session string, token uint64, apply func() error) (bool, error) {
	s.mu.Lock()
	cur := s.currentLocked(session, token)
	s.mu.Unlock()
	if cur == nil {
		return false, nil
	}

	cur.commit.Lock()
	defer cur.commit.Unlock()

	// a newer request may have committed while we waited
	if !s.IsCurrent(session, token) {
		return false, nil
	}
	return true, apply()
}

func (s *Sequencer) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}
