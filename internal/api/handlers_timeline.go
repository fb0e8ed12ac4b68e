package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listTimelines(c *gin.Context) {
	timelines, err := s.svc.Timelines.List(c.Request.Context())
	if err != nil {
		respondError(c, err, CodeFetch)
		return
	}
	out := make([]timelineResponse, len(timelines))
	for i, t := range timelines {
		out[i] = toTimelineResponse(t)
	}
	respond(c, http.StatusOK, out)
}

func (s *Server) createTimeline(c *gin.Context) {
	var req timelineRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, err, CodeCreate)
		return
	}
	tl, err := s.svc.Timelines.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, CodeCreate)
		return
	}
	respond(c, http.StatusCreated, toTimelineResponse(tl))
}

func (s *Server) getTimeline(c *gin.Context) {
	tl, err := s.svc.Timelines.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, CodeFetch)
		return
	}
	respond(c, http.StatusOK, toTimelineResponse(tl))
}

func (s *Server) updateTimeline(c *gin.Context) {
	var req timelineRequest
	if !bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		respondError(c, err, CodeUpdate)
		return
	}
	tl, err := s.svc.Timelines.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, CodeUpdate)
		return
	}
	respond(c, http.StatusOK, toTimelineResponse(tl))
}

func (s *Server) deleteTimeline(c *gin.Context) {
	id := c.Param("id")
	if err := s.svc.Timelines.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, CodeDelete)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

func (s *Server) listSprints(c *gin.Context) {
	sprints, err := s.svc.Sprints.ListByTimeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, CodeFetch)
		return
	}
	out := make([]sprintResponse, len(sprints))
	for i, sp := range sprints {
		out[i] = toSprintResponse(sp)
	}
	respond(c, http.StatusOK, out)
}

func (s *Server) createSprint(c *gin.Context) {
	var req sprintRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, err, CodeCreate)
		return
	}
	sp, err := s.svc.Sprints.Create(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, CodeCreate)
		return
	}
	respond(c, http.StatusCreated, toSprintResponse(sp))
}
