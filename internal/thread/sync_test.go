package thread

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

func TestSync_FiltersSelfOutOfPresence(t *testing.T) {
	self := uuid.New()
	other := uuid.New()
	third := uuid.New()

	conn := &Connection{connected: true, viewers: []models.Viewer{
		{UserID: self, Name: "Me", IsTyping: true},
		{UserID: other, Name: "Alice", IsTyping: true},
		{UserID: third, Name: "Bob", IsTyping: false},
	}}
	s := NewSync(conn, nil, self)

	typing := s.TypingUsers()
	if len(typing) != 1 || typing[0].UserID != other {
		t.Errorf("TypingUsers = %v, want just Alice", typing)
	}

	viewing := s.ActiveViewers()
	if len(viewing) != 2 {
		t.Errorf("ActiveViewers = %v, want Alice and Bob", viewing)
	}
	for _, v := range viewing {
		if v.UserID == self {
			t.Error("ActiveViewers must not include the current user")
		}
	}
}

func TestSync_EmptyPresence(t *testing.T) {
	conn := &Connection{connected: true}
	s := NewSync(conn, nil, uuid.New())

	if got := s.TypingUsers(); len(got) != 0 {
		t.Errorf("TypingUsers on empty presence = %v", got)
	}
	if got := s.ActiveViewers(); len(got) != 0 {
		t.Errorf("ActiveViewers on empty presence = %v", got)
	}
}
