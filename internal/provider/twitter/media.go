package twitter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"socialhub/internal/model"
	"socialhub/internal/provider"
)

// appendChunkSize is the APPEND segment size. The API caps a single
// segment at 5MB; 1MB keeps request bodies small after base64 growth.
const appendChunkSize = 1024 * 1024

type uploadResponse struct {
	MediaIDString  string          `json:"media_id_string"`
	ProcessingInfo *processingInfo `json:"processing_info"`
}

type processingInfo struct {
	State          string `json:"state"`
	CheckAfterSecs int    `json:"check_after_secs"`
	Error          *struct {
		Code    int    `json:"code"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// UploadMedia runs the chunked media upload handshake:
// INIT -> APPEND -> FINALIZE -> STATUS polling until the platform has
// finished processing. Returns the media id to reference from a tweet.
func (c *Client) UploadMedia(ctx context.Context, account *model.SocialAccount, data []byte, mediaType string) (string, error) {
	// INIT
	initResp, err := c.uploadCommand(ctx, account, url.Values{
		"command":     {"INIT"},
		"total_bytes": {strconv.Itoa(len(data))},
		"media_type":  {mediaType},
	})
	if err != nil {
		return "", fmt.Errorf("media INIT failed: %w", err)
	}
	mediaID := initResp.MediaIDString
	if mediaID == "" {
		return "", fmt.Errorf("media INIT returned no media id")
	}

	// APPEND, one segment per chunk
	for segment, offset := 0, 0; offset < len(data); segment, offset = segment+1, offset+appendChunkSize {
		end := offset + appendChunkSize
		if end > len(data) {
			end = len(data)
		}
		_, err := c.uploadCommand(ctx, account, url.Values{
			"command":       {"APPEND"},
			"media_id":      {mediaID},
			"media_data":    {base64.StdEncoding.EncodeToString(data[offset:end])},
			"segment_index": {strconv.Itoa(segment)},
		})
		if err != nil {
			return "", fmt.Errorf("media APPEND segment %d failed: %w", segment, err)
		}
	}

	// FINALIZE
	finalResp, err := c.uploadCommand(ctx, account, url.Values{
		"command":  {"FINALIZE"},
		"media_id": {mediaID},
	})
	if err != nil {
		return "", fmt.Errorf("media FINALIZE failed: %w", err)
	}

	// Synchronous path: no processing_info means the media is ready.
	if finalResp.ProcessingInfo == nil {
		return mediaID, nil
	}

	if err := c.waitForProcessing(ctx, account, mediaID, finalResp.ProcessingInfo); err != nil {
		return "", err
	}
	return mediaID, nil
}

// waitForProcessing polls STATUS until the media leaves
// pending/in_progress, honouring the platform's check_after_secs hint.
func (c *Client) waitForProcessing(ctx context.Context, account *model.SocialAccount, mediaID string, info *processingInfo) error {
	for attempt := 0; ; attempt++ {
		switch info.State {
		case "succeeded", "":
			return nil
		case "failed":
			msg := "media processing failed"
			if info.Error != nil {
				msg = fmt.Sprintf("media processing failed: %s (%s)", info.Error.Message, info.Error.Name)
			}
			return fmt.Errorf("twitter: %s", msg)
		case "pending", "in_progress":
			// fall through to wait and re-check
		default:
			return fmt.Errorf("twitter: unexpected media state %q", info.State)
		}

		if attempt >= c.maxPollAttempts {
			return &provider.MediaNotReadyError{
				Provider:  "twitter",
				AssetRef:  mediaID,
				Attempts:  attempt,
				LastState: info.State,
			}
		}

		wait := c.pollInterval
		if info.CheckAfterSecs > 0 {
			wait = time.Duration(info.CheckAfterSecs) * time.Second
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		statusResp, err := c.uploadStatus(ctx, account, mediaID)
		if err != nil {
			return fmt.Errorf("media STATUS failed: %w", err)
		}
		if statusResp.ProcessingInfo == nil {
			return nil
		}
		info = statusResp.ProcessingInfo
	}
}

func (c *Client) uploadCommand(ctx context.Context, account *model.SocialAccount, form url.Values) (*uploadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.uploadBaseURL+"/1.1/media/upload.json", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+account.AccessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.doUpload(req)
}

func (c *Client) uploadStatus(ctx context.Context, account *model.SocialAccount, mediaID string) (*uploadResponse, error) {
	statusURL := fmt.Sprintf("%s/1.1/media/upload.json?command=STATUS&media_id=%s", c.uploadBaseURL, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+account.AccessToken)

	return c.doUpload(req)
}

func (c *Client) doUpload(req *http.Request) (*uploadResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &provider.APIError{
			Provider:   "twitter",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	// APPEND returns 204 with an empty body.
	if len(body) == 0 {
		return &uploadResponse{}, nil
	}

	var parsed uploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &parsed, nil
}
