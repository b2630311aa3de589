package provider

import (
	"errors"
	"net/http"
	"strings"
)

// ErrorCategory is an operator-facing classification of a publish
// failure. The raw error text is still what gets persisted on the
// post row; categories only drive notifications and UI copy.
type ErrorCategory string

const (
	CategoryDuplicateContent ErrorCategory = "duplicate_content"
	CategoryAuthFailure      ErrorCategory = "auth_failure"
	CategoryPermissionDenied ErrorCategory = "permission_denied"
	CategoryExpiredMedia     ErrorCategory = "expired_media"
	CategoryMediaTimeout     ErrorCategory = "media_timeout"
	CategoryUnknown          ErrorCategory = "unknown"
)

// Categorize maps a publish error to an operator-facing category.
func Categorize(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	var notReady *MediaNotReadyError
	if errors.As(err, &notReady) {
		return CategoryMediaTimeout
	}

	msg := strings.ToLower(err.Error())

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return CategoryAuthFailure
		case http.StatusForbidden:
			if strings.Contains(msg, "duplicate") {
				return CategoryDuplicateContent
			}
			return CategoryPermissionDenied
		}
	}

	switch {
	case strings.Contains(msg, "duplicate"):
		return CategoryDuplicateContent
	case strings.Contains(msg, "token") && (strings.Contains(msg, "expired") || strings.Contains(msg, "invalid")),
		strings.Contains(msg, "unauthorized"):
		return CategoryAuthFailure
	case strings.Contains(msg, "permission"), strings.Contains(msg, "forbidden"):
		return CategoryPermissionDenied
	case strings.Contains(msg, "media") && strings.Contains(msg, "expired"):
		return CategoryExpiredMedia
	default:
		return CategoryUnknown
	}
}
