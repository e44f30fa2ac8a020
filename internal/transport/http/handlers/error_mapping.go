package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCase pairs a sentinel error with the status and message returned
// to the client when a handler encounters it.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError writes the response for the first case matching
// err, or the fallback when no case does.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	status, message := resolveErrorCase(err, cases, fallbackStatus, fallbackMessage)
	c.JSON(status, NewErrorResponse(c, message))
}

func resolveErrorCase(err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) (int, string) {
	for _, cs := range cases {
		if cs.Err != nil && errors.Is(err, cs.Err) {
			return cs.Status, cs.Message
		}
	}

	return fallbackStatus, fallbackMessage
}
