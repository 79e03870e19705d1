package dialogue

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxwise-in/taxwise/internal/model"
)

func newTestManager(t *testing.T, opts ManagerOptions) *Manager {
	t.Helper()
	m := NewManager(opts, nil)
	t.Cleanup(m.Close)
	return m
}

func TestManagerCreatesSessionWithDefaults(t *testing.T) {
	m := newTestManager(t, ManagerOptions{})

	m.WithSession("s1", func(s *model.Session) {
		assert.Equal(t, "s1", s.ID)
		assert.Equal(t, model.Unknown, s.Profile.TotalIncome)
		assert.Equal(t, "moderate", s.Profile.RiskTolerance)
		assert.Equal(t, "India", s.Profile.Location)
		assert.False(t, s.AwaitingSlot())
	})
	assert.Equal(t, 1, m.Len())
}

func TestManagerPersistsMutations(t *testing.T) {
	m := newTestManager(t, ManagerOptions{})

	m.WithSession("s1", func(s *model.Session) {
		s.Profile.TaxRegime = "old"
		s.LastQuery = "what is 80c"
	})

	m.WithSession("s1", func(s *model.Session) {
		assert.Equal(t, "old", s.Profile.TaxRegime)
		assert.Equal(t, "what is 80c", s.LastQuery)
	})
}

func TestManagerExpiresIdleSessions(t *testing.T) {
	m := newTestManager(t, ManagerOptions{TTL: 10 * time.Millisecond})

	m.WithSession("s1", func(s *model.Session) {
		s.Profile.TaxRegime = "old"
	})

	time.Sleep(20 * time.Millisecond)

	m.WithSession("s1", func(s *model.Session) {
		assert.Equal(t, model.Unknown, s.Profile.TaxRegime, "expired session should restart fresh")
	})
}

func TestManagerEvictsLeastRecentlyUsed(t *testing.T) {
	m := newTestManager(t, ManagerOptions{Capacity: 3})

	for i := 0; i < 3; i++ {
		m.WithSession(fmt.Sprintf("s%d", i), func(s *model.Session) {
			s.Profile.TaxRegime = "old"
		})
	}

	// Touch s0 so s1 becomes the eviction candidate.
	m.WithSession("s0", func(*model.Session) {})

	m.WithSession("s3", func(*model.Session) {})
	require.Equal(t, 3, m.Len())

	m.WithSession("s1", func(s *model.Session) {
		assert.Equal(t, model.Unknown, s.Profile.TaxRegime, "s1 should have been evicted")
	})
	m.WithSession("s0", func(s *model.Session) {
		assert.Equal(t, "old", s.Profile.TaxRegime, "s0 should have survived")
	})
}

func TestWithSessionRunsSessionsConcurrently(t *testing.T) {
	m := newTestManager(t, ManagerOptions{})

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		m.WithSession("slow", func(*model.Session) {
			close(started)
			<-release
		})
		close(done)
	}()
	<-started

	finished := make(chan struct{})
	go func() {
		m.WithSession("fast", func(*model.Session) {})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("second session blocked behind the first session's handler")
	}

	close(release)
	<-done
}

func TestWithSessionSerializesSameSession(t *testing.T) {
	m := newTestManager(t, ManagerOptions{})

	// Unsynchronized counter: overlapping handlers for one session
	// would lose increments and trip the race detector.
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.WithSession("s1", func(*model.Session) {
				counter++
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 25, counter)
}

func TestInFlightSessionSurvivesEviction(t *testing.T) {
	m := newTestManager(t, ManagerOptions{Capacity: 2})

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		m.WithSession("busy", func(s *model.Session) {
			s.Profile.TaxRegime = "old"
			close(started)
			<-release
		})
		close(done)
	}()
	<-started

	// Fill past capacity while the busy session's turn is in flight;
	// eviction must pick the idle session instead.
	m.WithSession("s2", func(*model.Session) {})
	m.WithSession("s3", func(*model.Session) {})

	close(release)
	<-done

	m.WithSession("busy", func(s *model.Session) {
		assert.Equal(t, "old", s.Profile.TaxRegime, "busy session should not have been evicted")
	})
	m.WithSession("s2", func(s *model.Session) {
		assert.Equal(t, model.Unknown, s.Profile.TaxRegime, "idle session should have been evicted instead")
	})
}

func TestManagerReset(t *testing.T) {
	m := newTestManager(t, ManagerOptions{})

	m.WithSession("s1", func(s *model.Session) {
		s.Profile.TaxRegime = "new"
	})
	m.Reset("s1")
	assert.Equal(t, 0, m.Len())

	m.WithSession("s1", func(s *model.Session) {
		assert.Equal(t, model.Unknown, s.Profile.TaxRegime)
	})
}
