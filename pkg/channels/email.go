package channels

import (
	"context"
	"fmt"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/config"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/log"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
)

// EmailChannel delivers through an HTTP transactional mail relay.
type EmailChannel struct {
	*BaseChannel
	config *config.MailConfig
}

// NewEmailChannel creates a new email channel
func NewEmailChannel(cfg *config.MailConfig, logger *log.Logger) *EmailChannel {
	return &EmailChannel{
		BaseChannel: NewBaseChannel(models.ChannelEmail, logger),
		config:      cfg,
	}
}

type sendMailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send sends the rendered message as a transactional email.
func (ec *EmailChannel) Send(ctx context.Context, profile *models.Profile, msg Message) (bool, string) {
	if ec.config.APIKey == "" {
		return false, "mail API key not configured"
	}

	if profile.Email == "" {
		return false, "recipient email address missing"
	}

	payload := sendMailRequest{
		From:    fmt.Sprintf("%s <%s>", ec.config.FromName, ec.config.FromAddress),
		To:      []string{profile.Email},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + ec.config.APIKey,
	}

	url := ec.config.APIBaseURL + "/emails"

	resp, err := ec.makeHTTPRequest(ctx, "POST", url, headers, payload)
	if err != nil {
		return false, err.Error()
	}

	return ec.handleHTTPResponse(resp, []int{200, 201, 202})
}
