package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/tempo/internal/domain"
)

// Error codes carried in the envelope.
const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
	CodeCreate     = "CREATE_ERROR"
	CodeUpdate     = "UPDATE_ERROR"
	CodeDelete     = "DELETE_ERROR"
	CodeMove       = "MOVE_ERROR"
	CodeFetch      = "FETCH_ERROR"
)

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

// respondError maps NotFound to 404 and validation failures to 400. Anything
// else is a 500 carrying the operation's fallback code.
func respondError(c *gin.Context, err error, fallback string) {
	var nf *domain.NotFoundError
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &nf) || errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, envelope{Error: &errorBody{Message: err.Error(), Code: CodeNotFound}})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, envelope{Error: &errorBody{Message: ve.Error(), Code: CodeValidation, Field: ve.Field}})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, envelope{Error: &errorBody{Message: err.Error(), Code: CodeValidation}})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, envelope{Error: &errorBody{Message: err.Error(), Code: fallback}})
	}
}

// bindJSON decodes the body and writes a 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Error: &errorBody{Message: "invalid JSON body: " + err.Error(), Code: CodeValidation}})
		return false
	}
	return true
}
