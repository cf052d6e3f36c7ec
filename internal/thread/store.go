package thread

import (
	"sync"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

// MessageStore holds the locally visible message list for one thread and
// implements optimistic updates as an explicit three-phase protocol:
// snapshot, speculative apply, then commit or revert. The transport never
// touches the store directly, so the rollback path is testable on its own.
type MessageStore struct {
	mu       sync.Mutex
	messages []models.Message
}

// NewMessageStore returns an empty store.
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// Messages returns a copy of the visible list.
func (s *MessageStore) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Replace installs the server's authoritative list wholesale. Whatever
// order and content the server returns is what renders; any optimistic
// entries are gone after this.
func (s *MessageStore) Replace(msgs []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]models.Message, len(msgs))
	copy(s.messages, msgs)
}

// Speculation is one in-flight optimistic change: it remembers the
// pre-change snapshot so the change can be reverted exactly.
type Speculation struct {
	store    *MessageStore
	snapshot []models.Message
	settled  bool
}

// Speculate snapshots the current list and appends msg. The append position
// is a temporary approximation; the next Replace decides the real order.
func (s *MessageStore) Speculate(msg models.Message) *Speculation {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]models.Message, len(s.messages))
	copy(snapshot, s.messages)

	s.messages = append(s.messages, msg)

	return &Speculation{store: s, snapshot: snapshot}
}

// Revert restores the pre-speculation snapshot. Reverting twice, or after
// Commit, is a no-op.
func (sp *Speculation) Revert() {
	sp.store.mu.Lock()
	defer sp.store.mu.Unlock()
	if sp.settled {
		return
	}
	sp.settled = true
	sp.store.messages = sp.snapshot
}

// Commit marks the speculation settled without touching the list; the
// authoritative Replace that follows every settle supersedes it anyway.
func (sp *Speculation) Commit() {
	sp.store.mu.Lock()
	defer sp.store.mu.Unlock()
	sp.settled = true
}
