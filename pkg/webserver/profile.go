package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/db"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/utils"
)

// profileRequest is the payload for updating the current profile. Pointer
// fields distinguish "not provided" from zero values.
type profileRequest struct {
	FullName             *string `json:"full_name"`
	LanguagePreference   *string `json:"language_preference"`
	NotificationEmail    *bool   `json:"notification_email"`
	NotificationTelegram *bool   `json:"notification_telegram"`
	NotificationWeChat   *bool   `json:"notification_wechat"`
	NotificationSMS      *bool   `json:"notification_sms"`
	TelegramID           *string `json:"telegram_id"`
	WeChatID             *string `json:"wechat_id"`
	PhoneNumber          *string `json:"phone_number"`
}

// getProfile returns the current profile
func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.getCurrentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Authentication required"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(profile, "Profile retrieved successfully"))
}

// updateProfile handles profile and notification-preference updates
func (s *Server) updateProfile(c *gin.Context) {
	profile, err := s.getCurrentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Authentication required"))
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request format"))
		return
	}

	if req.FullName != nil {
		profile.FullName = s.validator.SanitizeInput(*req.FullName)
	}
	if req.LanguagePreference != nil {
		if !s.validator.ValidateLanguage(*req.LanguagePreference) {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse("language_preference must be one of: en, zh, km"))
			return
		}
		profile.LanguagePreference = *req.LanguagePreference
	}
	if req.PhoneNumber != nil {
		if *req.PhoneNumber != "" && !s.validator.ValidatePhoneNumber(*req.PhoneNumber) {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid phone number format"))
			return
		}
		profile.PhoneNumber = *req.PhoneNumber
	}
	if req.TelegramID != nil {
		profile.TelegramID = s.validator.SanitizeInput(*req.TelegramID)
	}
	if req.WeChatID != nil {
		profile.WeChatID = s.validator.SanitizeInput(*req.WeChatID)
	}
	if req.NotificationEmail != nil {
		profile.NotificationEmail = *req.NotificationEmail
	}
	if req.NotificationTelegram != nil {
		profile.NotificationTelegram = *req.NotificationTelegram
	}
	if req.NotificationWeChat != nil {
		profile.NotificationWeChat = *req.NotificationWeChat
	}
	if req.NotificationSMS != nil {
		profile.NotificationSMS = *req.NotificationSMS
	}

	repo := db.NewRepository(s.db)
	if err := repo.UpdateProfile(c.Request.Context(), profile); err != nil {
		s.logger.WithError(err).Error("Failed to update profile")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update profile"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(profile, "Profile updated successfully"))
}
