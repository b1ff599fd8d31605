package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Persister is the durability port for conversation state. Save is called
// after every mutating operation; failures are best-effort and never
// surfaced to callers (implementations should log them).
type Persister interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// Patch carries the fields a PatchByID call merges into an existing
// message. Nil pointer fields are left untouched.
type Patch struct {
	Text      *string
	Time      *string
	Status    *string
	ResultIDs []string
	Results   []AgentCard
}

// Store is the single writer for one conversation. Every operation is a
// single synchronous step under the lock, so callers never observe a
// partial update.
type Store struct {
	mu        sync.Mutex
	session   Session
	persister Persister
}

// NewConversation creates a store holding a fresh session: a generated
// session id, the given mode, and the seed greeting as the only message.
func NewConversation(mode string, persister Persister) *Store {
	s := &Store{
		session: Session{
			SessionID: uuid.New().String(),
			Mode:      mode,
			Messages:  []Message{seedMessage()},
		},
		persister: persister,
	}
	s.persist()
	return s
}

// Resume wraps a previously persisted session. The seed invariant is
// restored if the loaded message list is empty.
func Resume(session *Session, persister Persister) *Store {
	if len(session.Messages) == 0 {
		session.Messages = []Message{seedMessage()}
	}
	return &Store{session: *session, persister: persister}
}

func seedMessage() Message {
	return Message{
		ID:     uuid.New().String(),
		Role:   RoleAssistant,
		Text:   SeedGreeting,
		Time:   time.Now().Format(TimeLayout),
		Status: StatusAnswered,
	}
}

// Append inserts the message at the end of the conversation.
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Messages = append(s.session.Messages, msg)
	s.persist()
}

// PatchByID merges the patch into the message with the given id and
// reports whether a message was found. A missing id is a no-op, not an
// error: a round-trip that resolves after the conversation was cleared
// lands here and is silently dropped.
func (s *Store) PatchByID(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.session.Messages {
		if s.session.Messages[i].ID != id {
			continue
		}
		m := &s.session.Messages[i]
		if patch.Text != nil {
			m.Text = *patch.Text
		}
		if patch.Time != nil {
			m.Time = *patch.Time
		}
		if patch.Status != nil {
			m.Status = *patch.Status
		}
		if patch.ResultIDs != nil {
			m.ResultIDs = patch.ResultIDs
		}
		if patch.Results != nil {
			m.Results = patch.Results
		}
		s.persist()
		return true
	}
	return false
}

// Reset replaces the conversation with a single fresh seed message and a
// newly generated session id, which it returns. The previous persisted
// record is deleted.
func (s *Store) Reset() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	oldID := s.session.SessionID
	s.session.SessionID = uuid.New().String()
	s.session.Messages = []Message{seedMessage()}
	if s.persister != nil {
		_ = s.persister.Delete(context.Background(), oldID)
	}
	s.persist()
	return s.session.SessionID
}

// SetMode overwrites the conversation mode. Messages and session id are
// untouched; only round-trips dispatched after this call see the new mode.
func (s *Store) SetMode(mode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Mode = mode
	s.persist()
}

// EnsureSessionID generates a session id if none is set and returns the
// id in effect. Idempotent when an id already exists.
func (s *Store) EnsureSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.SessionID == "" {
		s.session.SessionID = uuid.New().String()
		s.persist()
	}
	return s.session.SessionID
}

// SessionID returns the current session id.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.SessionID
}

// Mode returns the current conversation mode.
func (s *Store) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Mode
}

// Snapshot returns a copy of the session safe to read outside the lock.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.session
	snap.Messages = make([]Message, len(s.session.Messages))
	copy(snap.Messages, s.session.Messages)
	return snap
}

// persist writes the session through the port. Called under the lock.
// Persistence failures are not surfaced; the in-memory state is
// authoritative for the lifetime of the process.
func (s *Store) persist() {
	if s.persister == nil {
		return
	}
	snap := s.session
	snap.Messages = make([]Message, len(s.session.Messages))
	copy(snap.Messages, s.session.Messages)
	_ = s.persister.Save(context.Background(), &snap)
}
