package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/db"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/utils"
)

// listVisaTypes lists active visa-type encyclopedia entries, optionally
// filtered by destination country.
func (s *Server) listVisaTypes(c *gin.Context) {
	repo := db.NewRepository(s.db)

	visaTypes, err := repo.GetVisaTypes(c.Request.Context(), c.Query("country"))
	if err != nil {
		s.logger.WithError(err).Error("Failed to list visa types")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to retrieve visa types"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(visaTypes, "Visa types retrieved successfully"))
}

// getVisaType returns a single encyclopedia entry by code
func (s *Server) getVisaType(c *gin.Context) {
	repo := db.NewRepository(s.db)

	visaType, err := repo.GetVisaTypeByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Visa type not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get visa type")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to retrieve visa type"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(visaType, "Visa type retrieved successfully"))
}
