package mlabtest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

func (s *Server) handleListObjects(c *gin.Context) {
	t := models.ObjectType(c.Param("type"))

	s.mu.Lock()
	rows, ok := s.objects[t]
	actions := s.listAction[t]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown collection"})
		return
	}

	// Filters: exact match on filter[field]=value params.
	filtered := make([]models.Object, 0, len(rows))
	for _, row := range rows {
		match := true
		for key, vals := range c.Request.URL.Query() {
			if len(key) > 8 && key[:7] == "filter[" && key[len(key)-1] == ']' {
				field := key[7 : len(key)-1]
				if v, _ := row[field].(string); len(vals) > 0 && v != vals[0] {
					match = false
					break
				}
			}
		}
		if match {
			filtered = append(filtered, row)
		}
	}

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	perPage := 50
	if pp, err := strconv.Atoi(c.Query("per_page")); err == nil && pp > 0 {
		perPage = pp
	}

	start := (page - 1) * perPage
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + perPage
	if end > len(filtered) {
		end = len(filtered)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    filtered[start:end],
		"total":    len(filtered),
		"page":     page,
		"per_page": perPage,
		"actions":  actions,
	})
}

func (s *Server) handleGetObject(c *gin.Context) {
	t := models.ObjectType(c.Param("type"))
	id := c.Param("id")

	s.mu.Lock()
	rows := s.objects[t]
	actions := s.objActions[t]
	s.mu.Unlock()

	for _, row := range rows {
		if row.ID() == id {
			c.JSON(http.StatusOK, gin.H{"object": row, "actions": actions})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func (s *Server) handleAction(c *gin.Context) {
	var req models.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	call := ActionCall{
		Group:    c.Param("group"),
		ObjectID: c.Param("id"),
		Action:   req.Action,
		Data:     req.Data,
	}

	s.mu.Lock()
	s.actionCalls = append(s.actionCalls, call)
	resp, scripted := s.actionScripts[req.Action]
	s.mu.Unlock()

	if !scripted {
		resp = models.ActionResponse{InvalidateKeys: []string{call.Group}}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListDashboards(c *gin.Context) {
	s.mu.Lock()
	ds := s.dashboards
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"dashboards": ds})
}

func (s *Server) handleGetDashboard(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dashboards {
		if s.dashboards[i].ID.String() == id {
			c.JSON(http.StatusOK, s.dashboards[i])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// handleFile serves a small fixed payload so download instructions have a
// URL to fetch.
func (s *Server) handleFile(c *gin.Context) {
	c.Header("Content-Disposition", "attachment; filename="+c.Param("name"))
	c.Data(http.StatusOK, "text/csv", []byte("id,name\n1,example\n"))
}
