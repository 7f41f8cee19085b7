package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/utils"
)

// logout acknowledges a sign-out. Tokens are stateless, so there is nothing
// to invalidate server-side; clients discard the token.
func (s *Server) logout(c *gin.Context) {
	profile, err := s.getCurrentProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Authentication required"))
		return
	}

	s.logger.LogAuth(profile.ID, profile.Email, "logout", true)
	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Logged out successfully"))
}
