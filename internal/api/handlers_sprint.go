package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) getSprint(c *gin.Context) {
	sp, err := s.svc.Sprints.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, CodeFetch)
		return
	}
	respond(c, http.StatusOK, toSprintResponse(sp))
}

func (s *Server) updateSprint(c *gin.Context) {
	var req sprintRequest
	if !bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		respondError(c, err, CodeUpdate)
		return
	}
	sp, err := s.svc.Sprints.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, CodeUpdate)
		return
	}
	respond(c, http.StatusOK, toSprintResponse(sp))
}

func (s *Server) deleteSprint(c *gin.Context) {
	id := c.Param("id")
	if err := s.svc.Sprints.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, CodeDelete)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.svc.Tasks.ListBySprint(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, CodeFetch)
		return
	}
	out := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskResponse(t)
	}
	respond(c, http.StatusOK, out)
}

func (s *Server) createTask(c *gin.Context) {
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		respondError(c, err, CodeCreate)
		return
	}
	task, err := s.svc.Tasks.Create(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, CodeCreate)
		return
	}
	respond(c, http.StatusCreated, toTaskResponse(task))
}
