package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/db"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/utils"
)

// listReminders lists the current user's reminder occurrences
func (s *Server) listReminders(c *gin.Context) {
	profile, err := s.getCurrentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Authentication required"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filters := map[string]interface{}{
		"user_id": profile.ID,
	}
	if sent := c.Query("is_sent"); sent != "" {
		sentBool, err := strconv.ParseBool(sent)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse("is_sent must be true or false"))
			return
		}
		filters["is_sent"] = sentBool
	}
	if visaID := c.Query("visa_id"); visaID != "" {
		filters["visa_id"] = visaID
	}
	if channel := c.Query("channel"); channel != "" {
		filters["channel"] = channel
	}

	repo := db.NewRepository(s.db)

	totalCount, err := repo.GetRemindersCount(c.Request.Context(), filters)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count reminders")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to retrieve reminders"))
		return
	}

	pagination := utils.NewPagination(page, limit, totalCount)

	reminders, err := repo.GetRemindersWithFilters(c.Request.Context(), filters, pagination.Limit, pagination.GetOffset())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list reminders")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to retrieve reminders"))
		return
	}

	c.JSON(http.StatusOK, utils.NewPaginatedResponse(reminders, pagination, "Reminders retrieved successfully"))
}

// planReminders materializes reminder occurrences for the current user's
// visas. The operation is idempotent; re-planning never duplicates.
func (s *Server) planReminders(c *gin.Context) {
	profile, err := s.getCurrentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Authentication required"))
		return
	}

	created, err := s.planner.PlanForUser(c.Request.Context(), profile.ID)
	if err != nil {
		s.logger.WithError(err).Error("Reminder planning failed")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to plan reminders"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
		"created": created,
	}, "Reminders planned successfully"))
}

// dispatchReminders runs a delivery sweep over all due occurrences. Guarded
// by dispatchAuthMiddleware; meant to be hit by an external scheduler.
func (s *Server) dispatchReminders(c *gin.Context) {
	result, err := s.dispatcher.Dispatch(c.Request.Context())
	if err != nil {
		s.logger.WithError(err).Error("Reminder dispatch failed")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to dispatch reminders"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(result, result.Message))
}
