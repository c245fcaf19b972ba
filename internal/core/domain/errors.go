package domain

import "errors"

var (
	ErrInvalidCoordinate   = errors.New("invalid coordinate")
	ErrInvalidTheme        = errors.New("invalid theme")
	ErrMissingCredential   = errors.New("map provider credential not configured")
	ErrProviderUnavailable = errors.New("map provider unavailable")
	ErrProviderRejected    = errors.New("map provider rejected request")
)
