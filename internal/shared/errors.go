package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrAuthFailed       = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSearchFailed       = fmt.Errorf("search failed")
	ErrPlaylistFailed     = fmt.Errorf("playlist creation failed")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Card customization errors
	ErrCardNotFound = fmt.Errorf("card not found")
	ErrNoSelection  = fmt.Errorf("no item selected")
	ErrModalClosed  = fmt.Errorf("modal is not open")
	ErrUnknownField = fmt.Errorf("unknown header field")

	// Storage errors
	ErrKeyNotFound = fmt.Errorf("key not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
