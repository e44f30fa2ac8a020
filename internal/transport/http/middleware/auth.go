package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/core/domain"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/usecase"
)

// ErrorResponse matches the handlers.ErrorResponse structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// RequireSession resolves the bearer token to a session and stores the user
// in the request context. The token query parameter is accepted as a fallback
// for clients that cannot set headers.
func RequireSession(authService *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "missing session token"))
			return
		}

		session, user, err := authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, usecase.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "invalid or expired session"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				newErrorResponse(c, "authentication failed"))
			return
		}

		c.Set(UserKey, user)
		c.Set(SessionKey, session)

		c.Next()
	}
}

// CurrentUser retrieves the authenticated user stored by RequireSession.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return domain.User{}, false
	}
	user, ok := value.(domain.User)
	return user, ok
}

// CurrentSession retrieves the session stored by RequireSession.
func CurrentSession(c *gin.Context) (domain.Session, bool) {
	value, exists := c.Get(SessionKey)
	if !exists {
		return domain.Session{}, false
	}
	session, ok := value.(domain.Session)
	return session, ok
}
