package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"socialhub/internal/model"
	"socialhub/internal/provider"
)

const defaultBaseURL = "https://api.linkedin.com"

// Config holds the configuration for the LinkedIn client
type Config struct {
	HTTPClient      *http.Client
	Logger          *logrus.Entry
	BaseURL         string
	PollInterval    time.Duration
	MaxPollAttempts int
}

// Client publishes UGC shares through the LinkedIn API.
type Client struct {
	httpClient      *http.Client
	logger          *logrus.Entry
	baseURL         string
	pollInterval    time.Duration
	maxPollAttempts int
}

// New creates a LinkedIn client
func New(cfg Config) *Client {
	c := &Client{
		httpClient:      cfg.HTTPClient,
		logger:          cfg.Logger,
		baseURL:         cfg.BaseURL,
		pollInterval:    cfg.PollInterval,
		maxPollAttempts: cfg.MaxPollAttempts,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	c.logger = c.logger.WithField("component", "linkedin-client")
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.pollInterval <= 0 {
		c.pollInterval = 2 * time.Second
	}
	if c.maxPollAttempts <= 0 {
		c.maxPollAttempts = 20
	}
	return c
}

// Name returns the provider name
func (c *Client) Name() model.Provider {
	return model.ProviderLinkedIn
}

// Publish posts a UGC share. imageAssets are registered asset URNs;
// every asset must reach ALLOWED before the share is created.
func (c *Client) Publish(ctx context.Context, content string, account *model.SocialAccount, imageAssets []string) error {
	for _, asset := range imageAssets {
		if err := c.waitForAsset(ctx, account, asset); err != nil {
			return err
		}
	}

	payload := buildSharePayload(account, content, imageAssets)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal UGC share: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/ugcPosts", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build UGC share request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+account.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("UGC share request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &provider.APIError{
			Provider:   "linkedin",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	c.logger.WithFields(logrus.Fields{
		"account": account.ID,
		"assets":  len(imageAssets),
	}).Info("LinkedIn share published")
	return nil
}

func buildSharePayload(account *model.SocialAccount, content string, imageAssets []string) map[string]interface{} {
	shareContent := map[string]interface{}{
		"shareCommentary": map[string]string{
			"text": content,
		},
		"shareMediaCategory": "NONE",
	}

	if len(imageAssets) > 0 {
		media := make([]map[string]interface{}, 0, len(imageAssets))
		for _, asset := range imageAssets {
			media = append(media, map[string]interface{}{
				"status": "READY",
				"media":  asset,
			})
		}
		shareContent["shareMediaCategory"] = "IMAGE"
		shareContent["media"] = media
	}

	return map[string]interface{}{
		"author":         "urn:li:person:" + account.ProviderUserID,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]interface{}{
			"com.linkedin.ugc.ShareContent": shareContent,
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
}
