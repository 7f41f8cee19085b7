package webserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/db"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/utils"
)

// getDashboardStats returns visa and reminder summary counters for the
// current user.
func (s *Server) getDashboardStats(c *gin.Context) {
	profile, err := s.getCurrentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Authentication required"))
		return
	}

	repo := db.NewRepository(s.db)

	visaStats, err := repo.GetVisaStatusBreakdown(c.Request.Context(), profile.ID, time.Now())
	if err != nil {
		s.logger.WithError(err).Error("Failed to get visa breakdown")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to retrieve dashboard stats"))
		return
	}

	reminderStats, err := repo.GetReminderStats(c.Request.Context(), profile.ID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get reminder stats")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to retrieve dashboard stats"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
		"visas":     visaStats,
		"reminders": reminderStats,
	}, "Dashboard stats retrieved successfully"))
}
