package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nasymkhan/SOFTWAREHOUSE/internal/usecase"
)

// AdminHandler exposes the admin dashboard endpoint.
type AdminHandler struct {
	dashboard *usecase.DashboardService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(dashboard *usecase.DashboardService) *AdminHandler {
	return &AdminHandler{dashboard: dashboard}
}

// RegisterRoutes binds admin routes behind the session middleware.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, requireSession gin.HandlerFunc) {
	r.GET("/admin/dashboard", requireSession, h.stats)
}

func (h *AdminHandler) stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "dashboard lookup failed"))
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		TotalApplications:   stats.TotalApplications,
		PendingApplications: stats.PendingApplications,
		TotalMessages:       stats.TotalMessages,
		NewMessages:         stats.NewMessages,
		RecentApplications:  stats.RecentApplications,
		RecentMessages:      stats.RecentMessages,
	})
}
