package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
)

const maxSearchLimit = 200

func (s *Server) searchTasks(c *gin.Context) {
	q := service.TaskQuery{
		Text:       c.Query("q"),
		Department: c.Query("department"),
		Limit:      50,
	}
	if v := c.Query("status"); v != "" {
		status, err := domain.ParseTaskStatus(v)
		if err != nil {
			respondError(c, err, CodeFetch)
			return
		}
		q.Status = status
	}
	if v := c.Query("priority"); v != "" {
		priority, err := domain.ParsePriority(v)
		if err != nil {
			respondError(c, err, CodeFetch)
			return
		}
		q.Priority = priority
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxSearchLimit {
			respondError(c, &domain.ValidationError{Field: "limit", Message: "must be between 1 and 200"}, CodeFetch)
			return
		}
		q.Limit = n
	}

	hits, err := s.svc.Search.SearchTasks(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, CodeFetch)
		return
	}
	respond(c, http.StatusOK, toTaskHitResponses(hits))
}

func (s *Server) searchMembers(c *gin.Context) {
	members, err := s.svc.Search.SearchMembers(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, CodeFetch)
		return
	}
	out := make([]memberResponse, len(members))
	for i, m := range members {
		out[i] = toMemberResponse(m)
	}
	respond(c, http.StatusOK, out)
}

func (s *Server) addMember(c *gin.Context) {
	var req memberRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := s.svc.Search.AddMember(c.Request.Context(), domain.Member{
		ID: req.ID, Name: req.Name, Email: req.Email, Role: req.Role, Department: req.Department,
	})
	if err != nil {
		respondError(c, err, CodeCreate)
		return
	}
	respond(c, http.StatusCreated, toMemberResponse(m))
}

func (s *Server) saveSnapshot(c *gin.Context) {
	stats, err := s.svc.Snapshots.Save(c.Request.Context())
	if err != nil {
		respondError(c, err, CodeUpdate)
		return
	}
	respond(c, http.StatusOK, stats)
}

func (s *Server) loadSnapshot(c *gin.Context) {
	stats, err := s.svc.Snapshots.Load(c.Request.Context())
	if err != nil {
		respondError(c, err, CodeFetch)
		return
	}
	respond(c, http.StatusOK, stats)
}
