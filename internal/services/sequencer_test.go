package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer_TokensIncrease(t *testing.T) {
	s := NewSequencer()
	_, t1, done1 := s.Begin(context.Background(), "a")
	_, t2, done2 := s.Begin(context.Background(), "b")
	defer done1()
	defer done2()

	assert.Greater(t, t2, t1)
}

func TestSequencer_NewRequestCancelsPrevious(t *testing.T) {
	s := NewSequencer()
	ctx1, t1, done1 := s.Begin(context.Background(), "a")
	defer done1()
	_, t2, done2 := s.Begin(context.Background(), "a")
	defer done2()

	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.False(t, s.IsCurrent("a", t1))
	assert.True(t, s.IsCurrent("a", t2))
}

func TestSequencer_SessionsAreIndependent(t *testing.T) {
	s := NewSequencer()
	ctxA, tA, doneA := s.Begin(context.Background(), "a")
	defer doneA()
	_, _, doneB := s.Begin(context.Background(), "b")
	defer doneB()

	assert.NoError(t, ctxA.Err())
	assert.True(t, s.IsCurrent("a", tA))
	assert.Equal(t, 2, s.InFlight())
}

func TestSequencer_CommitOnlyCurrent(t *testing.T) {
	s := NewSequencer()
	_, t1, done1 := s.Begin(context.Background(), "a")
	_, t2, done2 := s.Begin(context.Background(), "a")
	defer done1()
	defer done2()

	applied := 0
	ok, err := s.Commit("a", t1, func() error { applied++; return nil })
	assert.False(t, ok)
	assert.NoError(t, err)

	ok, err = s.Commit("a", t2, func() error { applied++; return nil })
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 1, applied)
}

func TestSequencer_CommitReturnsApplyError(t *testing.T) {
	s := NewSequencer()
	_, tok, done := s.Begin(context.Background(), "a")
	defer done()

	boom := errors.New("boom")
	ok, err := s.Commit("a", tok, func() error { return boom })
	assert.True(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestSequencer_DoneReleasesSlot(t *testing.T) {
	s := NewSequencer()
	_, tok, done := s.Begin(context.Background(), "a")
	done()

	assert.Equal(t, 0, s.InFlight())
	assert.False(t, s.IsCurrent("a", tok))
}

func TestSequencer_OldDoneKeepsNewerSlot(t *testing.T) {
	s := NewSequencer()
	_, _, done1 := s.Begin(context.Background(), "a")
	_, t2, done2 := s.Begin(context.Background(), "a")
	defer done2()

	done1()
	assert.True(t, s.IsCurrent("a", t2))
}

func TestSequencer_ConcurrentBeginsLeaveOneCurrent(t *testing.T) {
	s := NewSequencer()
	const n = 50
	tokens := make([]uint64, n)
	dones := make([]func(), n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, tokens[i], dones[i] = s.Begin(context.Background(), "a")
		}(i)
	}
	wg.Wait()

	current := 0
	for _, tok := range tokens {
		if s.IsCurrent("a", tok) {
			current++
		}
	}
	require.Equal(t, 1, current)
	for _, d := range dones {
		d()
	}
	assert.Equal(t, 0, s.InFlight())
}

func TestSequencer_SlowCommitDoesNotBlockOtherSessions(t *testing.T) {
	s := NewSequencer()
	_, slowTok, slowDone := s.Begin(context.Background(), "slow")
	defer slowDone()

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _ = s.Commit("slow", slowTok, func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	finished := make(chan bool, 1)
	go func() {
		_, tok, done := s.Begin(context.Background(), "other")
		defer done()
		ok, _ := s.Commit("other", tok, func() error { return nil })
		finished <- ok
	}()

	select {
	case ok := <-finished:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("commit of another session waited for a slow commit")
	}
}

func TestSequencer_SupersededWhileWaitingForCommit(t *testing.T) {
	s := NewSequencer()
	_, t1, done1 := s.Begin(context.Background(), "a")
	defer done1()

	entered := make(chan struct{})
	release := make(chan struct{})
	first := make(chan bool, 1)
	go func() {
		ok, _ := s.Commit("a", t1, func() error {
			close(entered)
			<-release
			return nil
		})
		first <- ok
	}()
	<-entered

	// a newer request begins and commits behind the running one
	_, t2, done2 := s.Begin(context.Background(), "a")
	defer done2()
	second := make(chan bool, 1)
	go func() {
		ok, _ := s.Commit("a", t2, func() error { return nil })
		second <- ok
	}()

	select {
	case <-second:
		t.Fatal("commits of one session overlapped")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	assert.True(t, <-first)
	assert.True(t, <-second)
	assert.True(t, s.IsCurrent("a", t2))
}
