package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps a service error onto the response envelope. An
// apierr.Error carries its own status and field attribution; anything
// else is reported as a plain 400.
func RespondError(c *gin.Context, err error) {
	if apiErr, ok := apierr.As(err); ok {
		c.JSON(apiErr.Status, ErrorEnvelope{
			Error: APIError{
				Message: apiErr.Error(),
				Code:    apiErr.Code,
				Field:   apiErr.Field,
			},
		})
		return
	}
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: msg}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
