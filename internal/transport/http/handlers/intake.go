package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/usecase"
)

// IntakeHandler exposes the public contact and careers endpoints.
type IntakeHandler struct {
	intake *usecase.IntakeService
}

// NewIntakeHandler constructs IntakeHandler.
func NewIntakeHandler(intake *usecase.IntakeService) *IntakeHandler {
	return &IntakeHandler{intake: intake}
}

// RegisterRoutes binds the intake routes with an optional rate limiter.
func (h *IntakeHandler) RegisterRoutes(r *gin.RouterGroup, limiter gin.HandlerFunc) {
	r.POST("/contact", chain(limiter, h.submitContact)...)
	r.POST("/careers/apply", chain(limiter, h.submitApplication)...)
}

var intakeErrorCases = []ErrorCase{
	{Err: usecase.ErrInvalidContactMessage, Status: http.StatusBadRequest, Message: "invalid contact message"},
	{Err: usecase.ErrInvalidApplication, Status: http.StatusBadRequest, Message: "invalid job application"},
	{Err: usecase.ErrDuplicateApplication, Status: http.StatusConflict, Message: "an application with this email already exists"},
}

func (h *IntakeHandler) submitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	msg, err := h.intake.SubmitContactMessage(c.Request.Context(), usecase.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		RespondWithMappedError(c, err, intakeErrorCases, http.StatusInternalServerError, "contact submission failed")
		return
	}

	c.JSON(http.StatusCreated, SubmissionResponse{
		ID:          msg.ID,
		Status:      string(msg.Status),
		SubmittedAt: msg.SubmittedAt,
	})
}

func (h *IntakeHandler) submitApplication(c *gin.Context) {
	var req ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	app, err := h.intake.SubmitJobApplication(c.Request.Context(), usecase.ApplicationInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		CNIC:       req.CNIC,
		Role:       req.Role,
		Experience: req.Experience,
		TechStack:  req.TechStack,
		Projects:   req.Projects,
		Bio:        req.Bio,
	})
	if err != nil {
		RespondWithMappedError(c, err, intakeErrorCases, http.StatusInternalServerError, "application submission failed")
		return
	}

	c.JSON(http.StatusCreated, SubmissionResponse{
		ID:          app.ID,
		Status:      string(app.Status),
		SubmittedAt: app.SubmittedAt,
	})
}
