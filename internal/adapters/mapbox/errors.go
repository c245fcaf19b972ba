package mapbox

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/samirrijal/milelog/internal/core/domain"
)

// maxMessageRunes bounds provider text echoed into errors.
const maxMessageRunes = 200

// statusError maps a non-200 provider response to a domain error. 429 and 5xx
// are transient (ErrProviderUnavailable); other statuses are ErrProviderRejected.
func statusError(status int, body []byte) error {
	msg := providerMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: invalid Mapbox access token", domain.ErrProviderRejected)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: Mapbox API access forbidden, check token permissions", domain.ErrProviderRejected)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limit exceeded", domain.ErrProviderUnavailable)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: bad request: %s", domain.ErrProviderRejected, msg)
	case status >= 500:
		return fmt.Errorf("%w: Mapbox API error (%d): %s", domain.ErrProviderUnavailable, status, msg)
	default:
		return fmt.Errorf("%w: Mapbox API error (%d): %s", domain.ErrProviderRejected, status, msg)
	}
}

// providerMessage extracts "message" or "error" from a JSON error body and
// falls back to the raw text.
func providerMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	s := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(s) > maxMessageRunes {
		s = string([]rune(s)[:maxMessageRunes])
	}
	return s
}
