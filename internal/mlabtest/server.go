// Package mlabtest is an in-process stand-in for the ManagerLab backend,
// used by the test suites of the packages that talk to it. It speaks just
// enough of the REST and WebSocket surface for the client to exercise every
// path: session cookies, object lists, the two action endpoint shapes,
// thread messages and the thread socket protocol. Responses can be scripted
// per route to simulate overload, validation failures and action results.
package mlabtest

import (
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

// Seeded credentials every test session signs in with.
const (
	SeedEmail    = "manager@example.com"
	SeedPassword = "correct-horse-battery"
	// SeedMagicToken is accepted by the magic-link verify endpoint.
	SeedMagicToken = "magic-token-ok"
)

// ActionCall records one hit on an action endpoint, for assertions.
type ActionCall struct {
	Group    string
	ObjectID string
	Action   string
	Data     map[string]any
}

type scriptedFailure struct {
	status int
	body   any
	times  int
}

// Server is one stub backend instance.
type Server struct {
	mu sync.Mutex

	engine *gin.Engine
	http   *httptest.Server

	jwtSecret string
	user      models.User
	passHash  []byte

	objects    map[models.ObjectType][]models.Object
	listAction map[models.ObjectType][]models.Action
	objActions map[models.ObjectType][]models.Action
	dashboards []models.Dashboard

	messages map[string][]models.Message
	nextMsg  int

	actionCalls    []ActionCall
	actionScripts  map[string]models.ActionResponse
	failures       map[string]*scriptedFailure
	requests       map[string]int
	markReadCount  int
	threadSessions map[string][]*wsSession
}

// New starts a stub backend. Callers must Close it.
func New() *Server {
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s := &Server{
		engine:    gin.New(),
		jwtSecret: "mlabtest-secret",
		user: models.User{
			ID:          uuid.New(),
			TeamID:      uuid.New(),
			Email:       SeedEmail,
			DisplayName: "Test Manager",
		},
		passHash:       hash,
		objects:        map[models.ObjectType][]models.Object{},
		listAction:     map[models.ObjectType][]models.Action{},
		objActions:     map[models.ObjectType][]models.Action{},
		messages:       map[string][]models.Message{},
		actionScripts:  map[string]models.ActionResponse{},
		failures:       map[string]*scriptedFailure{},
		requests:       map[string]int{},
		threadSessions: map[string][]*wsSession{},
	}

	s.routes()
	s.http = httptest.NewServer(s.engine)
	return s
}

// URL is the backend's http base URL.
func (s *Server) URL() string { return s.http.URL }

// WSURL is the backend's ws base URL.
func (s *Server) WSURL() string {
	return "ws" + strings.TrimPrefix(s.http.URL, "http")
}

// User returns the seeded user.
func (s *Server) User() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Close shuts the backend down.
func (s *Server) Close() {
	s.closeThreadSessions()
	s.http.Close()
}

func (s *Server) routes() {
	s.engine.Use(s.scriptedFailures())

	s.engine.POST("/v1/auth/sign_in", s.handleSignIn)
	s.engine.POST("/v1/auth/verify", s.handleVerify)
	s.engine.POST("/v1/auth/expire", s.handleExpire)

	authed := s.engine.Group("/v1")
	authed.Use(s.requireSession())

	authed.GET("/me", s.handleMe)
	authed.GET("/objects/:type", s.handleListObjects)
	authed.GET("/objects/:type/:id", s.handleGetObject)
	authed.POST("/actions/:group", s.handleAction)
	authed.POST("/actions/:group/:id", s.handleAction)
	authed.GET("/threads/:type/:id/messages", s.handleListMessages)
	authed.POST("/threads/:type/:id/messages", s.handleCreateMessage)
	authed.GET("/threads/:type/:id/ws", s.handleThreadWS)
	authed.GET("/dashboards", s.handleListDashboards)
	authed.GET("/dashboards/:id", s.handleGetDashboard)
	authed.GET("/files/:name", s.handleFile)
}

// --- seeding -------------------------------------------------------------

// SeedObjects installs a collection's rows and its actions. listActions are
// returned with list responses (group-level), objectActions with details.
func (s *Server) SeedObjects(t models.ObjectType, rows []models.Object, listActions, objectActions []models.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[t] = rows
	s.listAction[t] = listActions
	s.objActions[t] = objectActions
}

// SeedMessages installs a thread's message list.
func (s *Server) SeedMessages(ref models.ThreadRef, msgs []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[threadKey(ref)] = msgs
	s.nextMsg = len(msgs) + 1
}

// SeedDashboards installs the dashboard list.
func (s *Server) SeedDashboards(ds []models.Dashboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboards = ds
}

// --- scripting -----------------------------------------------------------

// FailNext makes the next `times` requests matching method+path fail with
// the given status and optional JSON body.
func (s *Server) FailNext(method, path string, status int, body any, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = &scriptedFailure{status: status, body: body, times: times}
}

// ScriptAction sets the response returned for a given action key.
func (s *Server) ScriptAction(actionKey string, resp models.ActionResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actionScripts[actionKey] = resp
}

// ActionCalls returns every action-endpoint hit so far.
func (s *Server) ActionCalls() []ActionCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ActionCall, len(s.actionCalls))
	copy(out, s.actionCalls)
	return out
}

// Requests reports how many requests hit method+path, scripted failures
// included. Retry tests count attempts with it.
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// MarkReadCount reports how many mark_read frames arrived over WebSocket.
func (s *Server) MarkReadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markReadCount
}

func (s *Server) scriptedFailures() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.Request.URL.Path

		s.mu.Lock()
		s.requests[key]++
		f, ok := s.failures[key]
		if ok && f.times > 0 {
			f.times--
			status, body := f.status, f.body
			s.mu.Unlock()
			if body == nil {
				body = gin.H{"error": "scripted failure"}
			}
			c.AbortWithStatusJSON(status, body)
			return
		}
		s.mu.Unlock()

		c.Next()
	}
}

func threadKey(ref models.ThreadRef) string {
	return ref.Type + "/" + ref.ID
}
