package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"socialhub/internal/model"
	"socialhub/internal/provider"
)

func testAccount() *model.SocialAccount {
	return &model.SocialAccount{
		ID:             "acc-2",
		Provider:       model.ProviderLinkedIn,
		ProviderUserID: "abcDEF",
		AccessToken:    "li-token",
	}
}

// assetServer serves /v2/assets/{id} with a scripted status sequence
// and records the UGC share payload.
type assetServer struct {
	mu          sync.Mutex
	statuses    []string
	statusPolls int
	sharePosted bool
	shareBody   map[string]interface{}
	shareStatus int
}

func (a *assetServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()

		switch {
		case strings.HasPrefix(r.URL.Path, "/v2/assets/"):
			a.statusPolls++
			status := "ALLOWED"
			if len(a.statuses) > 0 {
				status = a.statuses[0]
				a.statuses = a.statuses[1:]
			}
			fmt.Fprintf(w, `{"recipes":[{"status":%q}]}`, status)
		case r.URL.Path == "/v2/ugcPosts":
			a.sharePosted = true
			body, _ := io.ReadAll(r.Body)
			json.Unmarshal(body, &a.shareBody)
			status := a.shareStatus
			if status == 0 {
				status = http.StatusCreated
			}
			w.WriteHeader(status)
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
	}
}

func newTestClient(srvURL string, maxAttempts int) *Client {
	return New(Config{
		BaseURL:         srvURL,
		PollInterval:    time.Millisecond,
		MaxPollAttempts: maxAttempts,
	})
}

func TestPublish_TextOnly(t *testing.T) {
	as := &assetServer{}
	srv := httptest.NewServer(as.handler(t))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	if err := c.Publish(context.Background(), "hello linkedin", testAccount(), nil); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}

	if as.statusPolls != 0 {
		t.Errorf("No asset polls expected for text-only share, got %d", as.statusPolls)
	}
	if as.shareBody["author"] != "urn:li:person:abcDEF" {
		t.Errorf("Unexpected author %v", as.shareBody["author"])
	}
}

func TestPublish_WaitsForAssets(t *testing.T) {
	as := &assetServer{statuses: []string{"PROCESSING", "PROCESSING", "ALLOWED"}}
	srv := httptest.NewServer(as.handler(t))
	defer srv.Close()

	c := newTestClient(srv.URL, 10)
	asset := "urn:li:digitalmediaAsset:C5522AQ"
	if err := c.Publish(context.Background(), "with image", testAccount(), []string{asset}); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}

	if as.statusPolls != 3 {
		t.Errorf("Expected 3 status polls, got %d", as.statusPolls)
	}
	if !as.sharePosted {
		t.Error("Expected UGC share to be posted after asset became ALLOWED")
	}

	content, ok := as.shareBody["specificContent"].(map[string]interface{})
	if !ok {
		t.Fatalf("Missing specificContent in share payload: %v", as.shareBody)
	}
	share, _ := content["com.linkedin.ugc.ShareContent"].(map[string]interface{})
	if share["shareMediaCategory"] != "IMAGE" {
		t.Errorf("Expected IMAGE share category, got %v", share["shareMediaCategory"])
	}
}

func TestPublish_AssetNeverReady(t *testing.T) {
	as := &assetServer{statuses: []string{"PROCESSING", "PROCESSING", "PROCESSING", "PROCESSING"}}
	srv := httptest.NewServer(as.handler(t))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	err := c.Publish(context.Background(), "stuck", testAccount(), []string{"urn:li:digitalmediaAsset:xyz"})
	if err == nil {
		t.Fatal("Expected error when asset never reaches ALLOWED")
	}

	var notReady *provider.MediaNotReadyError
	if !errors.As(err, &notReady) {
		t.Fatalf("Expected MediaNotReadyError, got %T: %v", err, err)
	}
	if notReady.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", notReady.Attempts)
	}
	if as.sharePosted {
		t.Error("Share must not be posted when an asset never becomes ready")
	}
}

func TestPublish_ShareAPIError(t *testing.T) {
	as := &assetServer{shareStatus: http.StatusUnauthorized}
	srv := httptest.NewServer(as.handler(t))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	err := c.Publish(context.Background(), "bad token", testAccount(), nil)
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}

	var apiErr *provider.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", apiErr.StatusCode)
	}
}

func TestRegisterUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/assets" || r.URL.Query().Get("action") != "registerUpload" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.String())
		}
		w.Write([]byte(`{"value":{"asset":"urn:li:digitalmediaAsset:C5522AQ","uploadMechanism":{"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest":{"uploadUrl":"https://upload.example.com/x"}}}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 5)
	asset, uploadURL, err := c.RegisterUpload(context.Background(), testAccount())
	if err != nil {
		t.Fatalf("RegisterUpload() failed: %v", err)
	}
	if asset != "urn:li:digitalmediaAsset:C5522AQ" {
		t.Errorf("Unexpected asset %s", asset)
	}
	if uploadURL != "https://upload.example.com/x" {
		t.Errorf("Unexpected upload URL %s", uploadURL)
	}
}
