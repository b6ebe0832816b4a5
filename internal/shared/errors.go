package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Upstream API errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrDecodeResponse     = fmt.Errorf("failed to decode API response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrAggregation        = fmt.Errorf("failed to aggregate batch")

	// Progress store errors
	ErrStoreWrite   = fmt.Errorf("failed to write progress")
	ErrUnknownStore = fmt.Errorf("unknown progress store driver")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
