package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"socialhub/internal/model"
	"socialhub/internal/provider"
)

type assetStatusResponse struct {
	Recipes []struct {
		Status string `json:"status"`
	} `json:"recipes"`
}

type registerUploadResponse struct {
	Value struct {
		Asset           string `json:"asset"`
		UploadMechanism map[string]struct {
			UploadURL string `json:"uploadUrl"`
		} `json:"uploadMechanism"`
	} `json:"value"`
}

// RegisterUpload registers a new image upload for the account and
// returns the asset URN plus the URL to PUT the image bytes to.
func (c *Client) RegisterUpload(ctx context.Context, account *model.SocialAccount) (assetURN, uploadURL string, err error) {
	payload := map[string]interface{}{
		"registerUploadRequest": map[string]interface{}{
			"recipes": []string{"urn:li:digitalmediaRecipe:feedshare-image"},
			"owner":   "urn:li:person:" + account.ProviderUserID,
			"serviceRelationships": []map[string]string{
				{
					"relationshipType": "OWNER",
					"identifier":       "urn:li:userGeneratedContent",
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal register upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/assets?action=registerUpload", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+account.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("register upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", &provider.APIError{
			Provider:   "linkedin",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var parsed registerUploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", "", fmt.Errorf("failed to decode register upload response: %w", err)
	}

	for _, mech := range parsed.Value.UploadMechanism {
		if mech.UploadURL != "" {
			uploadURL = mech.UploadURL
			break
		}
	}
	if parsed.Value.Asset == "" || uploadURL == "" {
		return "", "", fmt.Errorf("register upload response missing asset or upload URL")
	}

	return parsed.Value.Asset, uploadURL, nil
}

// waitForAsset polls the asset's processing status until it reaches
// ALLOWED, at a fixed interval, capped at the configured attempt
// budget.
func (c *Client) waitForAsset(ctx context.Context, account *model.SocialAccount, assetURN string) error {
	assetID := assetURN
	if idx := strings.LastIndex(assetURN, ":"); idx >= 0 {
		assetID = assetURN[idx+1:]
	}

	lastStatus := ""
	for attempt := 1; attempt <= c.maxPollAttempts; attempt++ {
		status, err := c.assetStatus(ctx, account, assetID)
		if err != nil {
			return err
		}
		lastStatus = status

		switch status {
		case "ALLOWED":
			return nil
		case "CLIENT_ERROR", "SERVER_ERROR":
			return fmt.Errorf("linkedin: asset %s processing failed (status %s)", assetURN, status)
		}

		if attempt == c.maxPollAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	return &provider.MediaNotReadyError{
		Provider:  "linkedin",
		AssetRef:  assetURN,
		Attempts:  c.maxPollAttempts,
		LastState: lastStatus,
	}
}

func (c *Client) assetStatus(ctx context.Context, account *model.SocialAccount, assetID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/assets/"+assetID, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+account.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("asset status request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &provider.APIError{
			Provider:   "linkedin",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var parsed assetStatusResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode asset status response: %w", err)
	}
	if len(parsed.Recipes) == 0 {
		return "", fmt.Errorf("asset status response missing recipes")
	}
	return parsed.Recipes[0].Status, nil
}
