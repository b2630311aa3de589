package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialhub/internal/model"
	"socialhub/internal/provider"
)

func testAccount() *model.SocialAccount {
	return &model.SocialAccount{
		ID:             "acc-1",
		Provider:       model.ProviderTwitter,
		ProviderUserID: "12345",
		AccessToken:    "test-token",
	}
}

func TestPublish_Success(t *testing.T) {
	var gotBody tweetRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/tweets" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"1"}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	err := c.Publish(context.Background(), "hello world", testAccount(), []string{"111", "222"})
	if err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotBody.Text != "hello world" {
		t.Errorf("Expected text 'hello world', got %q", gotBody.Text)
	}
	if gotBody.Media == nil || len(gotBody.Media.MediaIDs) != 2 {
		t.Errorf("Expected 2 media ids, got %+v", gotBody.Media)
	}
}

func TestPublish_NoMediaOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var raw map[string]interface{}
		json.Unmarshal(body, &raw)
		if _, ok := raw["media"]; ok {
			t.Error("media key should be omitted when there are no assets")
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	if err := c.Publish(context.Background(), "text only", testAccount(), nil); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
}

func TestPublish_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"duplicate content"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	err := c.Publish(context.Background(), "dup", testAccount(), nil)
	if err == nil {
		t.Fatal("Expected error for 403 response")
	}

	var apiErr *provider.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", apiErr.StatusCode)
	}
	if apiErr.Body != `{"detail":"duplicate content"}` {
		t.Errorf("Expected raw body preserved, got %q", apiErr.Body)
	}
}
