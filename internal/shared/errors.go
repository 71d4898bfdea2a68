package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed        = fmt.Errorf("authentication failed")
	ErrNotAuthenticated  = fmt.Errorf("not authenticated")
	ErrNoLoginInProgress = fmt.Errorf("no login in progress")
	ErrTokenExpired      = fmt.Errorf("access token expired")
	ErrCryptoUnavailable = fmt.Errorf("secure random source unavailable")
	ErrTimeout           = fmt.Errorf("operation timed out")

	// API and protocol errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrPaginationLoop     = fmt.Errorf("pagination cursor repeated")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
