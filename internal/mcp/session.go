package mcp

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionBuffer is the push-channel depth per session. A client that stops
// reading its stream loses messages past this depth rather than blocking
// the dispatcher.
const sessionBuffer = 64

// Session is one connected MCP client.
type Session struct {
	ID              string
	ProtocolVersion string
	ClientInfo      ClientInfo
	CreatedAt       time.Time

	// dispatchMu serializes request handling per session so responses are
	// delivered in request order.
	dispatchMu sync.Mutex

	mu             sync.Mutex
	lastAccessedAt time.Time
	messages       chan []byte
	closed         bool
}

// touch records an access. Lookups happen from concurrent requests, so the
// timestamp is guarded by the session mutex.
func (s *Session) touch() {
	s.mu.Lock()
	s.lastAccessedAt = time.Now()
	s.mu.Unlock()
}

// LastAccessed returns the time of the most recent lookup.
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}

// Send queues a message on the session's push channel. Returns false when
// the session is closed or the channel is full.
func (s *Session) Send(msg []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.messages <- msg:
		return true
	default:
		return false
	}
}

// Messages exposes the push channel for the transport's stream loop.
func (s *Session) Messages() <-chan []byte {
	return s.messages
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.messages)
	}
}

// SessionStore tracks live sessions in memory, keyed by opaque id.
// Safe for concurrent use.
type SessionStore struct {
	sessions sync.Map // map[string]*Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Create registers a new session with a generated id.
func (s *SessionStore) Create(params InitializeParams) *Session {
	session := &Session{
		ID:              uuid.New().String(),
		ProtocolVersion: negotiateProtocolVersion(params.ProtocolVersion),
		ClientInfo:      params.ClientInfo,
		CreatedAt:       time.Now(),
		lastAccessedAt:  time.Now(),
		messages:        make(chan []byte, sessionBuffer),
	}
	s.sessions.Store(session.ID, session)
	return session
}

// Get retrieves a session by id, refreshing its access time. Nil when the
// session does not exist.
func (s *SessionStore) Get(id string) *Session {
	if val, ok := s.sessions.Load(id); ok {
		session := val.(*Session)
		session.touch()
		return session
	}
	return nil
}

// Delete retires a session and closes its push channel.
func (s *SessionStore) Delete(id string) {
	if val, ok := s.sessions.LoadAndDelete(id); ok {
		val.(*Session).close()
	}
}

// Range visits every live session.
func (s *SessionStore) Range(fn func(*Session) bool) {
	s.sessions.Range(func(_, val interface{}) bool {
		return fn(val.(*Session))
	})
}
