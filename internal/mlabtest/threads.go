package mlabtest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

func refFrom(c *gin.Context) models.ThreadRef {
	return models.ThreadRef{Type: c.Param("type"), ID: c.Param("id")}
}

func (s *Server) handleListMessages(c *gin.Context) {
	ref := refFrom(c)
	s.mu.Lock()
	msgs := append([]models.Message(nil), s.messages[threadKey(ref)]...)
	s.mu.Unlock()
	if msgs == nil {
		msgs = []models.Message{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (s *Server) handleCreateMessage(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"errors": gin.H{"body": []string{"body is required"}},
		})
		return
	}

	ref := refFrom(c)
	user := s.User()
	now := time.Now().UTC()

	s.mu.Lock()
	s.nextMsg++
	msg := models.Message{
		ID:       fmt.Sprintf("msg-%d", s.nextMsg),
		Thread:   ref,
		AuthorID: user.ID,
		Author: models.AuthorSummary{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.DisplayName,
		},
		Body:      req.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.messages[threadKey(ref)] = append(s.messages[threadKey(ref)], msg)
	s.mu.Unlock()

	s.PushEvent(ref, models.ThreadEvent{Type: models.WSNewMessage, Message: &msg})
	c.JSON(http.StatusCreated, msg)
}

// --- WebSocket -----------------------------------------------------------

type wsSession struct {
	conn *websocket.Conn
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (s *Server) handleThreadWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	ref := refFrom(c)
	sess := &wsSession{conn: conn}

	key := threadKey(ref)
	s.mu.Lock()
	s.threadSessions[key] = append(s.threadSessions[key], sess)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		sessions := s.threadSessions[key]
		for i, other := range sessions {
			if other == sess {
				s.threadSessions[key] = append(sessions[:i], sessions[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		conn.Close()
	}()

	user := s.User()
	for {
		var ev models.ThreadEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return
		}
		switch ev.Type {
		case models.WSMarkRead:
			s.mu.Lock()
			s.markReadCount++
			s.mu.Unlock()
		case models.WSPing:
			s.sendTo(sess, models.ThreadEvent{Type: models.WSPong})
		case models.WSTyping:
			// Echo a fresh presence snapshot with the caller's state.
			s.PushEvent(ref, models.ThreadEvent{
				Type: models.WSTypingUpdate,
				Viewers: []models.Viewer{{
					UserID:   user.ID,
					Name:     user.DisplayName,
					IsTyping: ev.IsTyping,
				}},
			})
		}
	}
}

func (s *Server) sendTo(sess *wsSession, ev models.ThreadEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = sess.conn.WriteJSON(ev)
}

// PushEvent broadcasts a server-side event to every socket on the thread,
// the hook tests use to simulate other users' activity.
func (s *Server) PushEvent(ref models.ThreadRef, ev models.ThreadEvent) {
	s.mu.Lock()
	sessions := append([]*wsSession(nil), s.threadSessions[threadKey(ref)]...)
	s.mu.Unlock()
	for _, sess := range sessions {
		s.sendTo(sess, ev)
	}
}

// PushViewers broadcasts a presence snapshot (user_joined or typing_update).
func (s *Server) PushViewers(ref models.ThreadRef, eventType string, viewers []models.Viewer) {
	s.PushEvent(ref, models.ThreadEvent{Type: eventType, Viewers: viewers})
}

// DropThreadConnections force-closes every socket on a thread, simulating a
// network cut from the server side.
func (s *Server) DropThreadConnections(ref models.ThreadRef) {
	s.mu.Lock()
	sessions := append([]*wsSession(nil), s.threadSessions[threadKey(ref)]...)
	s.threadSessions[threadKey(ref)] = nil
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.conn.Close()
	}
}

func (s *Server) closeThreadSessions() {
	s.mu.Lock()
	var all []*wsSession
	for k, sessions := range s.threadSessions {
		all = append(all, sessions...)
		s.threadSessions[k] = nil
	}
	s.mu.Unlock()
	for _, sess := range all {
		sess.conn.Close()
	}
}
