package geocoding

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Error kinds shared by every provider.
var (
	// ErrInvalidInput is returned when the query cannot be sent at all, e.g. an empty address.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedOperation is returned when a provider is asked for something it cannot do.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrServerResponseInvalid is returned when the backend could not be reached or its reply not understood.
	ErrServerResponseInvalid = errors.New("invalid server response")
)

// credentialParams are query parameters whose values never leave the provider.
var credentialParams = []string{"token", "key"}

// ServerResponseError describes a failed request to a geocoding backend.
// URL is the requested URL with credential values replaced by REDACTED.
type ServerResponseError struct {
	URL string
	Err error
}

func (e *ServerResponseError) Error() string {
	return fmt.Sprintf("invalid server response for %s: %v", e.URL, e.Err)
}

func (e *ServerResponseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrServerResponseInvalid) hold for every ServerResponseError.
func (e *ServerResponseError) Is(target error) bool {
	return target == ErrServerResponseInvalid
}

func newServerResponseError(requestURL string, err error) *ServerResponseError {
	return &ServerResponseError{URL: redactURL(requestURL), Err: err}
}

// redactURL hides credential values while keeping parameter order intact.
func redactURL(requestURL string) string {
	base, rawQuery, found := strings.Cut(requestURL, "?")
	if !found {
		return requestURL
	}

	pairs := strings.Split(rawQuery, "&")
	for i, pair := range pairs {
		key, _, _ := strings.Cut(pair, "=")
		if slices.Contains(credentialParams, key) {
			pairs[i] = key + "=REDACTED"
		}
	}

	return base + "?" + strings.Join(pairs, "&")
}
