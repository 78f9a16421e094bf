package source

import "errors"

var (
	ErrSourceNotFound  = errors.New("source not found")
	ErrSourceTooLarge  = errors.New("source too large")
	ErrInvalidName     = errors.New("invalid source name")
	ErrContentMismatch = errors.New("content does not match extension")
	ErrBlockedAddress  = errors.New("remote address not allowed")
)
