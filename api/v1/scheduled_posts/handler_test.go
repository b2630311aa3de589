package scheduled_posts

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// setupValidationRouter wires the handler without a database; only
// paths that reject before any query are exercised here.
func setupValidationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("uid", 1)
	})
	h := NewHandler(nil)
	r.POST("/api/v1/scheduled-posts", h.Create)
	r.PATCH("/api/v1/scheduled-posts/:id", h.Update)
	return r
}

func TestCreate_RejectsPastTime(t *testing.T) {
	r := setupValidationRouter()

	past := time.Now().Add(-time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{"content":"hi","scheduledFor":%q,"socialAccountId":"acc-1"}`, past)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/scheduled-posts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for past scheduledFor, got %d", w.Code)
	}
}

func TestCreate_RejectsTooManyImageAssets(t *testing.T) {
	r := setupValidationRouter()

	assets := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		assets = append(assets, fmt.Sprintf(`"asset-%d"`, i))
	}
	future := time.Now().Add(time.Hour).Format(time.RFC3339)
	body := fmt.Sprintf(`{"content":"hi","scheduledFor":%q,"socialAccountId":"acc-1","metadata":{"imageAssets":[%s]}}`,
		future, strings.Join(assets, ","))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/scheduled-posts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for more than 9 image assets, got %d", w.Code)
	}
}

func TestCreate_RejectsMissingFields(t *testing.T) {
	r := setupValidationRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/scheduled-posts", strings.NewReader(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing fields, got %d", w.Code)
	}
}

func TestUpdate_RejectsPastTime(t *testing.T) {
	r := setupValidationRouter()

	past := time.Now().Add(-time.Minute).Format(time.RFC3339)
	body := fmt.Sprintf(`{"content":"edited","scheduledFor":%q}`, past)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/api/v1/scheduled-posts/some-id", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for past scheduledFor, got %d", w.Code)
	}
}
