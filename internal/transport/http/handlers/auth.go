package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/transport/http/middleware"
	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/usecase"
)

// AuthHandler exposes registration, login, logout, and current-user endpoints.
type AuthHandler struct {
	auth         *usecase.AuthService
	registration *usecase.RegistrationService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, registration *usecase.RegistrationService) *AuthHandler {
	return &AuthHandler{auth: auth, registration: registration}
}

// RegisterRoutes binds authentication routes, applying optional middleware ahead of the credential endpoints.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, requireSession gin.HandlerFunc, loginLimiter, registerLimiter gin.HandlerFunc) {
	r.POST("/register", chain(registerLimiter, h.register)...)
	r.POST("/login", chain(loginLimiter, h.login)...)
	r.DELETE("/logout", h.logout)
	r.GET("/me", requireSession, h.currentUser)
	r.GET("/history", requireSession, h.loginHistory)
}

func chain(mw gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{mw, handler}
}

var registerErrorCases = []ErrorCase{
	{Err: usecase.ErrInvalidUsername, Status: http.StatusBadRequest, Message: usecase.ErrInvalidUsername.Error()},
	{Err: usecase.ErrInvalidEmail, Status: http.StatusBadRequest, Message: usecase.ErrInvalidEmail.Error()},
	{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: usecase.ErrWeakPassword.Error()},
	{Err: usecase.ErrInvalidProfile, Status: http.StatusBadRequest, Message: usecase.ErrInvalidProfile.Error()},
	{Err: usecase.ErrDuplicateAccount, Status: http.StatusConflict, Message: usecase.ErrDuplicateAccount.Error()},
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	input := usecase.RegistrationInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Location: req.Location,
		Country:  req.Country,
	}

	session, user, err := h.registration.Register(c.Request.Context(), input, requestMeta(c))
	if err != nil {
		RespondWithMappedError(c, err, registerErrorCases, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      newUserSummary(user),
	})
}

var loginErrorCases = []ErrorCase{
	{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
	{Err: usecase.ErrAccountSuspended, Status: http.StatusForbidden, Message: "account suspended due to repeated failed logins"},
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	meta := requestMeta(c)
	meta.Platform = req.Platform

	session, user, err := h.auth.Login(c.Request.Context(), req.Identifier, req.Password, meta)
	if err != nil {
		RespondWithMappedError(c, err, loginErrorCases, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      newUserSummary(user),
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUnauthenticated, Status: http.StatusUnauthorized, Message: "missing session token"},
		}, http.StatusInternalServerError, "logout failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) currentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	c.JSON(http.StatusOK, newUserSummary(user))
}

func (h *AuthHandler) loginHistory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	count, err := h.auth.LoginHistoryCount(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "login history lookup failed"))
		return
	}

	c.JSON(http.StatusOK, LoginHistoryResponse{TotalAttempts: count})
}

func requestMeta(c *gin.Context) usecase.RequestMeta {
	return usecase.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
