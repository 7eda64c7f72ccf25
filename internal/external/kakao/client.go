package kakao

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wonny/swingpick/pkg/config"
	"github.com/wonny/swingpick/pkg/httputil"
	"github.com/wonny/swingpick/pkg/logger"
)

// Client handles Kakao OAuth token refresh and "send to me" messages
// ⭐ SSOT: Kakao API 호출은 이 클라이언트에서만
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	restKey      string
	refreshToken string
	authURL      string
	apiURL       string
}

// NewClient creates a new Kakao client
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.KakaoConfig) *Client {
	return &Client{
		httpClient:   httpClient,
		logger:       log,
		restKey:      cfg.RESTKey,
		refreshToken: cfg.RefreshToken,
		authURL:      cfg.AuthURL,
		apiURL:       cfg.APIURL,
	}
}

// tokenResponse is the OAuth token endpoint response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// RefreshAccessToken exchanges the stored refresh token for a short-lived
// access token. Failure here is fatal to a run: without the token nothing
// can be delivered, not even a fallback notice.
func (c *Client) RefreshAccessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {c.restKey},
		"refresh_token": {c.refreshToken},
	}

	resp, err := c.httpClient.PostForm(ctx, c.authURL+"/oauth/token", form)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("empty access token in response")
	}

	c.logger.Debug("Refreshed Kakao access token")
	return token.AccessToken, nil
}

// textTemplate is the Kakao "text" message template
type textTemplate struct {
	ObjectType  string       `json:"object_type"`
	Text        string       `json:"text"`
	Link        templateLink `json:"link"`
	ButtonTitle string       `json:"button_title"`
}

type templateLink struct {
	WebURL       string `json:"web_url"`
	MobileWebURL string `json:"mobile_web_url"`
}

// SendToMe sends a text message to the token owner's own Kakao account.
// 본문은 UTF-8 그대로 전송되어야 함 (ASCII escape 금지)
func (c *Client) SendToMe(ctx context.Context, accessToken, text string) error {
	tmpl := textTemplate{
		ObjectType: "text",
		Text:       text,
		Link: templateLink{
			WebURL:       "https://finance.naver.com",
			MobileWebURL: "https://finance.naver.com",
		},
		ButtonTitle: "열기",
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tmpl); err != nil {
		return fmt.Errorf("encode template: %w", err)
	}

	form := url.Values{
		"template_object": {strings.TrimSpace(buf.String())},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/v2/api/talk/memo/default/send",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	c.logger.WithField("bytes", len(text)).Debug("Sent Kakao message")
	return nil
}
