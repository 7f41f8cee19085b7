package channels

import (
	"context"
	"fmt"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/config"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/log"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
)

// TelegramChannel delivers direct messages through the Telegram bot API.
type TelegramChannel struct {
	*BaseChannel
	config *config.TelegramConfig
}

// NewTelegramChannel creates a new Telegram channel
func NewTelegramChannel(cfg *config.TelegramConfig, logger *log.Logger) *TelegramChannel {
	return &TelegramChannel{
		BaseChannel: NewBaseChannel(models.ChannelTelegram, logger),
		config:      cfg,
	}
}

// Send sends the rendered message to the profile's Telegram chat.
func (tc *TelegramChannel) Send(ctx context.Context, profile *models.Profile, msg Message) (bool, string) {
	if tc.config.BotToken == "" {
		return false, "Telegram bot token not configured"
	}

	if profile.TelegramID == "" {
		return false, "Telegram chat ID missing on profile"
	}

	payload := map[string]interface{}{
		"chat_id":    profile.TelegramID,
		"text":       fmt.Sprintf("🛂 *VisaTrack Reminder*\n\n%s", msg.Text),
		"parse_mode": "Markdown",
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", tc.config.APIBaseURL, tc.config.BotToken)

	resp, err := tc.makeHTTPRequest(ctx, "POST", url, nil, payload)
	if err != nil {
		return false, err.Error()
	}

	return tc.handleHTTPResponse(resp, []int{200})
}
