package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is where a session stands.
type State int

// Session states.
const (
	StateActive State = iota
	StateFinished
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Store keeps records of the sessions a receiver has served.
type Store interface {
	New(id uuid.UUID, started time.Time) error
	Get(id uuid.UUID) (Session, error)
	Set(sess Session) error
	Clear(id uuid.UUID) error
}

// Session is the diagnostic record of one session. It plays no part in the protocol.
type Session struct {
	ID       uuid.UUID `json:"id"`
	Peer     string    `json:"peer,omitempty"`
	Started  time.Time `json:"started"`
	Ended    time.Time `json:"ended,omitempty"`
	Files    int       `json:"files"`
	Attempts int       `json:"attempts"`
	Bytes    int64     `json:"bytes"`
	State    State     `json:"state"`
	Err      string    `json:"err,omitempty"`
}

type MemoryStore struct {
	sessions map[uuid.UUID]Session
	mu       sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]Session),
	}
}

func (p *MemoryStore) New(id uuid.UUID, started time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sessions[id]; ok {
		return ErrSessionAlreadyExists
	}
	p.sessions[id] = Session{
		ID:      id,
		Started: started,
		State:   StateActive,
	}
	return nil
}

func (p *MemoryStore) Get(id uuid.UUID) (Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if sess, ok := p.sessions[id]; ok {
		return sess, nil
	}
	return Session{}, ErrSessionNotFound
}

func (p *MemoryStore) Set(sess Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sessions[sess.ID]; !ok {
		return ErrSessionNotFound
	}
	p.sessions[sess.ID] = sess
	return nil
}

func (p *MemoryStore) Clear(id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(p.sessions, id)
	return nil
}

// Sessions returns a copy of every stored session, in no particular order.
func (p *MemoryStore) Sessions() []Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Session, 0, len(p.sessions))
	for _, sess := range p.sessions {
		out = append(out, sess)
	}
	return out
}

// Len returns the number of stored sessions.
func (p *MemoryStore) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}
