package webserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/db"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/utils"
)

// visaRequest is the payload for creating or updating a visa record.
type visaRequest struct {
	Country      string `json:"country" binding:"required"`
	VisaType     string `json:"visa_type" binding:"required"`
	VisaNumber   string `json:"visa_number"`
	Category     string `json:"category"`
	IssueDate    string `json:"issue_date"`
	ExpiryDate   string `json:"expiry_date" binding:"required"`
	EntryType    string `json:"entry_type"`
	PersonName   string `json:"person_name"`
	Relationship string `json:"relationship"`
	Notes        string `json:"notes"`
	PhotoURL     string `json:"photo_url"`
}

// createVisa handles visa creation
func (s *Server) createVisa(c *gin.Context) {
	profile, err := s.getCurrentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Authentication required"))
		return
	}

	var req visaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request format"))
		return
	}

	visa, errMsg := s.visaFromRequest(&req)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(errMsg))
		return
	}
	visa.UserID = profile.ID
	visa.Status = visa.DeriveStatus(time.Now())

	repo := db.NewRepository(s.db)
	if err := repo.CreateVisa(c.Request.Context(), visa); err != nil {
		s.logger.WithError(err).Error("Failed to create visa")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create visa"))
		return
	}

	s.logger.LogVisa(visa.ID, profile.ID, visa.Country, "created")

	// Plan reminder occurrences for the new expiry date. Planning failure
	// does not fail the write; the next plan request catches up.
	if _, err := s.planner.PlanForUser(c.Request.Context(), profile.ID); err != nil {
		s.logger.WithError(err).Warn("Reminder planning after visa create failed")
	}

	c.JSON(http.StatusCreated, utils.NewSuccessResponse(visa, "Visa created successfully"))
}

// listVisas handles listing visas with filters and pagination
func (s *Server) listVisas(c *gin.Context) {
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
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if country := c.Query("country"); country != "" {
		filters["country"] = country
	}
	if category := c.Query("category"); category != "" {
		filters["category"] = category
	}

	repo := db.NewRepository(s.db)

	totalCount, err := repo.GetVisasCount(c.Request.Context(), filters)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count visas")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to retrieve visas"))
		return
	}

	pagination := utils.NewPagination(page, limit, totalCount)

	visas, err := repo.GetVisasWithFilters(c.Request.Context(), filters, pagination.Limit, pagination.GetOffset())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list visas")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to retrieve visas"))
		return
	}

	c.JSON(http.StatusOK, utils.NewPaginatedResponse(visas, pagination, "Visas retrieved successfully"))
}

// getVisa handles retrieving a single visa
func (s *Server) getVisa(c *gin.Context) {
	profile, err := s.getCurrentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Authentication required"))
		return
	}

	repo := db.NewRepository(s.db)
	visa, err := repo.GetVisaByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Visa not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get visa")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to retrieve visa"))
		return
	}

	if visa.UserID != profile.ID {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Visa not found"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(visa, "Visa retrieved successfully"))
}

// updateVisa handles visa updates
func (s *Server) updateVisa(c *gin.Context) {
	profile, err := s.getCurrentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Authentication required"))
		return
	}

	repo := db.NewRepository(s.db)
	visa, err := repo.GetVisaByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Visa not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get visa")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to retrieve visa"))
		return
	}

	if visa.UserID != profile.ID {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Visa not found"))
		return
	}

	var req visaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request format"))
		return
	}

	updated, errMsg := s.visaFromRequest(&req)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(errMsg))
		return
	}

	visa.Country = updated.Country
	visa.VisaType = updated.VisaType
	visa.VisaNumber = updated.VisaNumber
	visa.Category = updated.Category
	visa.IssueDate = updated.IssueDate
	visa.ExpiryDate = updated.ExpiryDate
	visa.EntryType = updated.EntryType
	visa.PersonName = updated.PersonName
	visa.Relationship = updated.Relationship
	visa.Notes = updated.Notes
	visa.PhotoURL = updated.PhotoURL
	visa.Status = visa.DeriveStatus(time.Now())

	if err := repo.UpdateVisa(c.Request.Context(), visa); err != nil {
		s.logger.WithError(err).Error("Failed to update visa")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update visa"))
		return
	}

	s.logger.LogVisa(visa.ID, profile.ID, visa.Country, "updated")

	// Re-plan: a changed expiry date may introduce new offsets. Already
	// planned (visa, offset) pairs are left untouched.
	if _, err := s.planner.PlanForUser(c.Request.Context(), profile.ID); err != nil {
		s.logger.WithError(err).Warn("Reminder planning after visa update failed")
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(visa, "Visa updated successfully"))
}

// deleteVisa handles visa deletion
func (s *Server) deleteVisa(c *gin.Context) {
	profile, err := s.getCurrentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Authentication required"))
		return
	}

	repo := db.NewRepository(s.db)
	visa, err := repo.GetVisaByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Visa not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get visa")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to retrieve visa"))
		return
	}

	if visa.UserID != profile.ID {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Visa not found"))
		return
	}

	if err := repo.DeleteVisa(c.Request.Context(), visa.ID); err != nil {
		s.logger.WithError(err).Error("Failed to delete visa")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to delete visa"))
		return
	}

	s.logger.LogVisa(visa.ID, profile.ID, visa.Country, "deleted")
	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Visa deleted successfully"))
}

// visaFromRequest validates the payload and builds a visa record. The second
// return value carries a user-facing validation message when non-empty.
func (s *Server) visaFromRequest(req *visaRequest) (*models.Visa, string) {
	if !s.validator.ValidateDate(req.ExpiryDate) {
		return nil, "expiry_date must be in YYYY-MM-DD format"
	}
	expiryDate, _ := time.Parse("2006-01-02", req.ExpiryDate)

	visa := &models.Visa{
		Country:      s.validator.SanitizeInput(req.Country),
		VisaType:     s.validator.SanitizeInput(req.VisaType),
		VisaNumber:   s.validator.SanitizeInput(req.VisaNumber),
		ExpiryDate:   expiryDate,
		PersonName:   s.validator.SanitizeInput(req.PersonName),
		Relationship: s.validator.SanitizeInput(req.Relationship),
		Notes:        s.validator.SanitizeInput(req.Notes),
		PhotoURL:     req.PhotoURL,
	}

	if req.IssueDate != "" {
		if !s.validator.ValidateDate(req.IssueDate) {
			return nil, "issue_date must be in YYYY-MM-DD format"
		}
		issueDate, _ := time.Parse("2006-01-02", req.IssueDate)
		if issueDate.After(expiryDate) {
			return nil, "issue_date must not be after expiry_date"
		}
		visa.IssueDate = &issueDate
	}

	switch models.VisaCategory(req.Category) {
	case "":
		visa.Category = models.CategoryTourist
	case models.CategoryTourist, models.CategoryBusiness, models.CategoryStudent,
		models.CategoryWork, models.CategoryTransit, models.CategoryOther:
		visa.Category = models.VisaCategory(req.Category)
	default:
		return nil, "invalid visa category"
	}

	switch models.EntryType(req.EntryType) {
	case "":
		visa.EntryType = models.EntrySingle
	case models.EntrySingle, models.EntryMultiple, models.EntryTransit:
		visa.EntryType = models.EntryType(req.EntryType)
	default:
		return nil, "invalid entry type"
	}

	return visa, ""
}
