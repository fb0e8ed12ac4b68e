package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/tempo/internal/domain"
)

func (s *Server) getTask(c *gin.Context) {
	task, err := s.svc.Tasks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, CodeFetch)
		return
	}
	respond(c, http.StatusOK, toTaskResponse(task))
}

func (s *Server) updateTask(c *gin.Context) {
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		respondError(c, err, CodeUpdate)
		return
	}
	task, err := s.svc.Tasks.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err, CodeUpdate)
		return
	}
	respond(c, http.StatusOK, toTaskResponse(task))
}

func (s *Server) deleteTask(c *gin.Context) {
	id := c.Param("id")
	if err := s.svc.Tasks.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, CodeDelete)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}

func (s *Server) moveTask(c *gin.Context) {
	var req moveRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.TargetSprintID == "" {
		respondError(c, domain.Required("targetSprintId"), CodeMove)
		return
	}
	task, err := s.svc.Tasks.Move(c.Request.Context(), c.Param("id"), req.TargetSprintID)
	if err != nil {
		respondError(c, err, CodeMove)
		return
	}
	respond(c, http.StatusOK, toTaskResponse(task))
}

func (s *Server) shiftTask(c *gin.Context) {
	var req shiftRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Days == nil {
		respondError(c, domain.Required("days"), CodeUpdate)
		return
	}
	task, err := s.svc.Tasks.Shift(c.Request.Context(), c.Param("id"), *req.Days)
	if err != nil {
		respondError(c, err, CodeUpdate)
		return
	}
	respond(c, http.StatusOK, toTaskResponse(task))
}

func (s *Server) listSubtasks(c *gin.Context) {
	subtasks, err := s.svc.Subtasks.ListByTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, CodeFetch)
		return
	}
	out := make([]subtaskResponse, len(subtasks))
	for i, st := range subtasks {
		out[i] = toSubtaskResponse(st)
	}
	respond(c, http.StatusOK, out)
}

func (s *Server) createSubtask(c *gin.Context) {
	var req subtaskRequest
	if !bindJSON(c, &req) {
		return
	}
	w, err := req.input()
	if err != nil {
		respondError(c, err, CodeCreate)
		return
	}
	st, err := s.svc.Subtasks.Create(c.Request.Context(), c.Param("id"), domain.SubtaskInput{WorkInput: w})
	if err != nil {
		respondError(c, err, CodeCreate)
		return
	}
	respond(c, http.StatusCreated, toSubtaskResponse(st))
}

func (s *Server) getSubtask(c *gin.Context) {
	st, err := s.svc.Subtasks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, CodeFetch)
		return
	}
	respond(c, http.StatusOK, toSubtaskResponse(st))
}

func (s *Server) updateSubtask(c *gin.Context) {
	var req subtaskRequest
	if !bindJSON(c, &req) {
		return
	}
	w, err := req.patch()
	if err != nil {
		respondError(c, err, CodeUpdate)
		return
	}
	st, err := s.svc.Subtasks.Update(c.Request.Context(), c.Param("id"), domain.SubtaskPatch{WorkPatch: w})
	if err != nil {
		respondError(c, err, CodeUpdate)
		return
	}
	respond(c, http.StatusOK, toSubtaskResponse(st))
}

func (s *Server) deleteSubtask(c *gin.Context) {
	id := c.Param("id")
	if err := s.svc.Subtasks.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, CodeDelete)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id})
}
