package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/config"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/log"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
)

// WeChatChannel delivers template messages through the WeChat official
// account API. Each send exchanges the app credentials for a short-lived
// access token first.
type WeChatChannel struct {
	*BaseChannel
	config *config.WeChatConfig
}

// NewWeChatChannel creates a new WeChat channel
func NewWeChatChannel(cfg *config.WeChatConfig, logger *log.Logger) *WeChatChannel {
	return &WeChatChannel{
		BaseChannel: NewBaseChannel(models.ChannelWeChat, logger),
		config:      cfg,
	}
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	ErrCode     int    `json:"errcode"`
	ErrMsg      string `json:"errmsg"`
}

// Send exchanges credentials for an access token and sends the rendered
// message as a template message to the profile's WeChat account.
func (wc *WeChatChannel) Send(ctx context.Context, profile *models.Profile, msg Message) (bool, string) {
	if wc.config.AppID == "" || wc.config.AppSecret == "" {
		return false, "WeChat credentials not configured"
	}

	if profile.WeChatID == "" {
		return false, "WeChat ID missing on profile"
	}

	accessToken, errMsg := wc.fetchAccessToken(ctx)
	if accessToken == "" {
		return false, errMsg
	}

	templateField := func(value string) map[string]string {
		return map[string]string{
			"value": value,
			"color": "#173177",
		}
	}

	payload := map[string]interface{}{
		"touser":      profile.WeChatID,
		"template_id": wc.config.TemplateID,
		"data": map[string]interface{}{
			"first":    templateField("签证到期提醒"),
			"keyword1": templateField(msg.Text),
			"remark":   templateField("请及时续签以避免签证过期。"),
		},
	}

	url := fmt.Sprintf("%s/cgi-bin/message/template/send?access_token=%s", wc.config.APIBaseURL, accessToken)

	resp, err := wc.makeHTTPRequest(ctx, "POST", url, nil, payload)
	if err != nil {
		return false, err.Error()
	}

	return wc.handleHTTPResponse(resp, []int{200})
}

// fetchAccessToken performs the client-credential exchange. Returns an empty
// token with a reason on failure.
func (wc *WeChatChannel) fetchAccessToken(ctx context.Context) (string, string) {
	url := fmt.Sprintf("%s/cgi-bin/token?grant_type=client_credential&appid=%s&secret=%s",
		wc.config.APIBaseURL, wc.config.AppID, wc.config.AppSecret)

	resp, err := wc.makeHTTPRequest(ctx, "GET", url, nil, nil)
	if err != nil {
		return "", err.Error()
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Sprintf("failed to read token response: %v", err)
	}

	var tokenResp accessTokenResponse
	if err := json.Unmarshal(bodyBytes, &tokenResp); err != nil {
		return "", fmt.Sprintf("failed to decode token response: %v", err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Sprintf("failed to get WeChat access token: %s", tokenResp.ErrMsg)
	}

	return tokenResp.AccessToken, ""
}
