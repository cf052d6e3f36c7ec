// Package thread implements the realtime side of comment threads: the
// WebSocket connection (presence, typing, heartbeat) and the optimistic
// message list layered over the REST message endpoints.
package thread

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

// HeartbeatInterval is how often the client pings to keep intermediary
// connections alive. The server answers pong, which is accepted and ignored.
const HeartbeatInterval = 30 * time.Second

// Connection is one live WebSocket to one thread. It holds presence state
// only; message content flows through the REST layer, and inbound message
// events merely signal the caller to refetch.
//
// A Connection never reconnects itself. Once the socket drops it stays
// down, presence is cleared, and the caller decides whether to dial again.
type Connection struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	viewers   []models.Viewer

	writeMu sync.Mutex

	ref    models.ThreadRef
	logger *zap.Logger

	// onMessageUpdate fires on new_message, message_updated and
	// message_deleted so the message list can refetch.
	onMessageUpdate func()

	stopHeartbeat chan struct{}
	done          chan struct{}
	closeOnce     sync.Once
}

// DialOptions configures Dial.
type DialOptions struct {
	// BaseURL is the WebSocket base, e.g. "ws://host:port".
	BaseURL string
	// SessionToken rides as the session cookie, as a browser would send it.
	SessionToken string
	// OnMessageUpdate is invoked (on the read-loop goroutine) whenever the
	// server signals the message list changed. May be nil.
	OnMessageUpdate func()
	Logger          *zap.Logger
}

// Dial opens the thread's socket, sends mark_read (resetting the caller's
// unread counter server-side), and starts the heartbeat and read loop.
func Dial(ctx context.Context, ref models.ThreadRef, opts DialOptions) (*Connection, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	wsURL := fmt.Sprintf("%s/v1/threads/%s/%s/ws",
		opts.BaseURL, url.PathEscape(ref.Type), url.PathEscape(ref.ID))

	header := http.Header{}
	if opts.SessionToken != "" {
		header.Set("Cookie", "mlab_session="+opts.SessionToken)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, fmt.Errorf("dial thread %s/%s: %w", ref.Type, ref.ID, err)
	}

	c := &Connection{
		conn:            conn,
		connected:       true,
		ref:             ref,
		logger:          opts.Logger,
		onMessageUpdate: opts.OnMessageUpdate,
		stopHeartbeat:   make(chan struct{}),
		done:            make(chan struct{}),
	}

	if err := c.writeEvent(models.ThreadEvent{Type: models.WSMarkRead}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("mark read: %w", err)
	}

	go c.heartbeat()
	go c.readLoop()

	return c, nil
}

// Connected reports whether the socket is still up.
func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Viewers returns the latest presence snapshot. Empty whenever the
// connection is down: presence is not assumed valid without a live socket.
func (c *Connection) Viewers() []models.Viewer {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Viewer, len(c.viewers))
	copy(out, c.viewers)
	return out
}

// SendTypingIndicator reports the local user's typing state. It transmits
// only while the socket is open and silently no-ops otherwise; typing
// signals are not worth queueing or failing over.
func (c *Connection) SendTypingIndicator(isTyping bool) {
	c.mu.Lock()
	open := c.connected
	c.mu.Unlock()
	if !open {
		return
	}
	if err := c.writeEvent(models.ThreadEvent{Type: models.WSTyping, IsTyping: isTyping}); err != nil {
		c.logger.Debug("typing indicator dropped", zap.Error(err))
	}
}

// Close tears the connection down: heartbeat stopped, socket closed,
// presence cleared. Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.stopHeartbeat)
		c.markDisconnected()
		c.conn.Close()
	})
}

// Done is closed when the read loop exits, for callers that want to notice
// a drop.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) writeEvent(ev models.ThreadEvent) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(ev)
}

// heartbeat pings every HeartbeatInterval until Close or a write failure.
func (c *Connection) heartbeat() {
	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopHeartbeat:
			return
		case <-ticker.C:
			if err := c.writeEvent(models.ThreadEvent{Type: models.WSPing}); err != nil {
				c.logger.Debug("heartbeat write failed", zap.Error(err))
				return
			}
		}
	}
}

// readLoop processes inbound events in delivery order until the socket
// drops. Presence snapshots replace wholesale (last write wins, no merge)
// so a missed delta can never strand a stale viewer.
func (c *Connection) readLoop() {
	defer close(c.done)

	for {
		var ev models.ThreadEvent
		if err := c.conn.ReadJSON(&ev); err != nil {
			c.logger.Debug("thread connection closed",
				zap.String("thread_type", c.ref.Type),
				zap.String("thread_id", c.ref.ID),
				zap.Error(err),
			)
			c.markDisconnected()
			return
		}

		switch ev.Type {
		case models.WSUserJoined, models.WSTypingUpdate:
			c.mu.Lock()
			c.viewers = ev.Viewers
			c.mu.Unlock()
		case models.WSNewMessage, models.WSMessageUpdated, models.WSMessageDeleted:
			if c.onMessageUpdate != nil {
				c.onMessageUpdate()
			}
		case models.WSPong:
			// Heartbeat reply, nothing to do.
		default:
			c.logger.Debug("unknown thread event", zap.String("type", ev.Type))
		}
	}
}

func (c *Connection) markDisconnected() {
	c.mu.Lock()
	c.connected = false
	c.viewers = nil
	c.mu.Unlock()
}
