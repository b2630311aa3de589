package provider

import (
	"errors"
	"fmt"
)

// APIError is a failed platform API call: network failure aside, any
// non-2xx response becomes an APIError carrying the raw response body
// so it can be surfaced verbatim on the post row.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// MediaNotReadyError means an uploaded asset never became ready within
// the polling budget. Distinct from APIError so operators can tell a
// processing timeout from a rejected call.
type MediaNotReadyError struct {
	Provider  string
	AssetRef  string
	Attempts  int
	LastState string
}

func (e *MediaNotReadyError) Error() string {
	return fmt.Sprintf("%s media %s not ready after %d attempts (last state %q)",
		e.Provider, e.AssetRef, e.Attempts, e.LastState)
}

// IsMediaNotReady reports whether err is a media readiness timeout.
func IsMediaNotReady(err error) bool {
	var target *MediaNotReadyError
	return errors.As(err, &target)
}
