// Package dialogue owns conversation state: an LRU session store with
// idle expiry, and the slot-filling logic that turns free-form answers
// into profile attributes.
package dialogue

import (
	"container/list"
	"log/slog"
	"sync"
	"time"

	"github.com/taxwise-in/taxwise/internal/model"
)

const (
	defaultCapacity = 1024
	defaultTTL      = 30 * time.Minute
)

// Manager stores sessions keyed by ID with LRU eviction and idle
// expiry. All access goes through WithSession. The manager lock covers
// only the map and LRU bookkeeping; each session carries its own lock
// for the handler, so turns in different sessions run concurrently and
// a slow handler never stalls the rest of the store.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*list.Element
	order    *list.List // front = most recently used
	capacity int
	ttl      time.Duration
	logger   *slog.Logger
	stopCh   chan struct{}
}

// sessionEntry pairs a session with its handler lock. inUse counts
// turns currently holding or waiting on mu; eviction, expiry and the
// sweeper all skip entries with inUse > 0. Both inUse and
// session.LastSeen are guarded by the manager lock, the rest of the
// session by mu.
type sessionEntry struct {
	mu      sync.Mutex
	session *model.Session
	inUse   int
}

// ManagerOptions configures a Manager. Zero values take defaults.
type ManagerOptions struct {
	Capacity int
	TTL      time.Duration
}

// NewManager creates a session manager and starts its expiry sweeper.
func NewManager(opts ManagerOptions, logger *slog.Logger) *Manager {
	if opts.Capacity <= 0 {
		opts.Capacity = defaultCapacity
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		sessions: make(map[string]*list.Element),
		order:    list.New(),
		capacity: opts.Capacity,
		ttl:      opts.TTL,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}

	go m.sweep()

	return m
}

// WithSession runs fn with the session for id, creating a fresh session
// when none exists or the previous one expired. fn's mutations persist.
// Calls for the same id serialize; calls for different ids do not, so
// fn may block on slow providers without holding up other sessions.
func (m *Manager) WithSession(id string, fn func(*model.Session)) {
	m.mu.Lock()
	entry := m.lookup(id)
	if entry == nil {
		entry = &sessionEntry{session: &model.Session{
			ID:      id,
			Profile: model.NewProfile(),
		}}
		m.insert(id, entry)
	}
	entry.inUse++
	entry.session.LastSeen = time.Now()
	m.mu.Unlock()

	entry.mu.Lock()
	fn(entry.session)
	entry.mu.Unlock()

	m.mu.Lock()
	entry.inUse--
	entry.session.LastSeen = time.Now()
	m.mu.Unlock()
}

// Reset discards the session for id, if any. An in-flight turn on the
// discarded session finishes against the detached object; the next
// WithSession starts fresh.
func (m *Manager) Reset(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, exists := m.sessions[id]; exists {
		m.order.Remove(elem)
		delete(m.sessions, id)
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the expiry sweeper.
func (m *Manager) Close() {
	close(m.stopCh)
}

// lookup returns the live entry for id, expiring it in place when idle
// past the TTL. Entries with a turn in flight never expire. Caller
// holds the manager lock.
func (m *Manager) lookup(id string) *sessionEntry {
	elem, exists := m.sessions[id]
	if !exists {
		return nil
	}

	entry := elem.Value.(*sessionEntry)
	if entry.inUse == 0 && time.Since(entry.session.LastSeen) > m.ttl {
		m.order.Remove(elem)
		delete(m.sessions, id)
		return nil
	}

	m.order.MoveToFront(elem)
	return entry
}

// insert adds an entry, evicting the least recently used idle one at
// capacity. Caller holds the manager lock.
func (m *Manager) insert(id string, entry *sessionEntry) {
	if len(m.sessions) >= m.capacity {
		for elem := m.order.Back(); elem != nil; elem = elem.Prev() {
			candidate := elem.Value.(*sessionEntry)
			if candidate.inUse > 0 {
				continue
			}
			m.order.Remove(elem)
			delete(m.sessions, candidate.session.ID)
			m.logger.Debug("evicted least recently used session", "session_id", candidate.session.ID)
			break
		}
	}

	m.sessions[id] = m.order.PushFront(entry)
}

// sweep drops idle sessions in the background so abandoned
// conversations don't pin memory until their slot is reused.
func (m *Manager) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for elem := m.order.Back(); elem != nil; {
				prev := elem.Prev()
				entry := elem.Value.(*sessionEntry)
				if entry.inUse == 0 && now.Sub(entry.session.LastSeen) > m.ttl {
					m.order.Remove(elem)
					delete(m.sessions, entry.session.ID)
				}
				elem = prev
			}
			m.mu.Unlock()
		}
	}
}
