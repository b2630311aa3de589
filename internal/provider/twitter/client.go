package twitter

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

const (
	defaultBaseURL       = "https://api.twitter.com"
	defaultUploadBaseURL = "https://upload.twitter.com"
)

// Config holds the configuration for the Twitter client
type Config struct {
	HTTPClient      *http.Client
	Logger          *logrus.Entry
	BaseURL         string
	UploadBaseURL   string
	PollInterval    time.Duration
	MaxPollAttempts int
}

// Client publishes tweets and uploads media through the Twitter API.
type Client struct {
	httpClient      *http.Client
	logger          *logrus.Entry
	baseURL         string
	uploadBaseURL   string
	pollInterval    time.Duration
	maxPollAttempts int
}

// New creates a Twitter client
func New(cfg Config) *Client {
	c := &Client{
		httpClient:      cfg.HTTPClient,
		logger:          cfg.Logger,
		baseURL:         cfg.BaseURL,
		uploadBaseURL:   cfg.UploadBaseURL,
		pollInterval:    cfg.PollInterval,
		maxPollAttempts: cfg.MaxPollAttempts,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	c.logger = c.logger.WithField("component", "twitter-client")
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.uploadBaseURL == "" {
		c.uploadBaseURL = defaultUploadBaseURL
	}
	if c.pollInterval <= 0 {
		c.pollInterval = time.Second
	}
	if c.maxPollAttempts <= 0 {
		c.maxPollAttempts = 30
	}
	return c
}

// Name returns the provider name
func (c *Client) Name() model.Provider {
	return model.ProviderTwitter
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

// Publish creates a tweet with the given content. imageAssets are
// media ids previously uploaded via UploadMedia.
func (c *Client) Publish(ctx context.Context, content string, account *model.SocialAccount, imageAssets []string) error {
	req := tweetRequest{Text: content}
	if len(imageAssets) > 0 {
		req.Media = &tweetMedia{MediaIDs: imageAssets}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal tweet request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build tweet request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+account.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("tweet request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &provider.APIError{
			Provider:   "twitter",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	c.logger.WithFields(logrus.Fields{
		"account": account.ID,
		"media":   len(imageAssets),
	}).Info("Tweet published")
	return nil
}
