package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/config"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/log"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
)

// Message is the rendered content handed to a channel. Subject and HTML are
// only meaningful for email; the other channels send Text.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Channel is a notification delivery medium. Send returns whether delivery
// succeeded and, when it did not, a short reason. Missing configuration or
// missing recipient addressing is a failed delivery, never an error that
// aborts the dispatch run.
type Channel interface {
	Send(ctx context.Context, profile *models.Profile, msg Message) (bool, string)
	GetName() string
}

// Registry holds the configured delivery channels keyed by name.
type Registry struct {
	channels map[string]Channel
	logger   *log.Logger
}

// NewRegistry creates a registry with all supported channels registered.
// Channels with missing credentials are still registered; they report
// themselves as not configured at send time.
func NewRegistry(cfg *config.Config, logger *log.Logger) *Registry {
	registry := &Registry{
		channels: make(map[string]Channel),
		logger:   logger,
	}

	registry.register(NewEmailChannel(&cfg.Mail, logger))
	registry.register(NewTelegramChannel(&cfg.Telegram, logger))
	registry.register(NewWeChatChannel(&cfg.WeChat, logger))

	return registry
}

func (r *Registry) register(channel Channel) {
	r.channels[channel.GetName()] = channel
	r.logger.WithField("channel", channel.GetName()).Debug("Registered channel")
}

// Get returns a channel by name, or nil for unrecognized names (sms among
// them).
func (r *Registry) Get(name string) Channel {
	return r.channels[name]
}

// BaseChannel provides common functionality for channels
type BaseChannel struct {
	name   string
	logger *log.Logger
	client *http.Client
}

// NewBaseChannel creates a new base channel
func NewBaseChannel(name string, logger *log.Logger) *BaseChannel {
	return &BaseChannel{
		name:   name,
		logger: logger,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetName returns the channel name
func (bc *BaseChannel) GetName() string {
	return bc.name
}

// makeHTTPRequest makes an HTTP request with a JSON body
func (bc *BaseChannel) makeHTTPRequest(ctx context.Context, method, url string, headers map[string]string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader

	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set default headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "VisaTrack/1.0")

	// Set custom headers
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := bc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	return resp, nil
}

// handleHTTPResponse handles HTTP response
func (bc *BaseChannel) handleHTTPResponse(resp *http.Response, successCodes []int) (bool, string) {
	defer resp.Body.Close()

	// Read response body for error details
	bodyBytes, _ := io.ReadAll(resp.Body)
	bodyString := string(bodyBytes)

	// Check if status code is in success codes
	for _, code := range successCodes {
		if resp.StatusCode == code {
			bc.logger.WithFields(map[string]interface{}{
				"channel":     bc.name,
				"status_code": resp.StatusCode,
			}).Debug("Notification sent successfully")
			return true, ""
		}
	}

	bc.logger.WithFields(map[string]interface{}{
		"channel":       bc.name,
		"status_code":   resp.StatusCode,
		"response_body": bodyString,
	}).Error("Failed to send notification")

	return false, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, bodyString)
}
