package period

import "fmt"

// ErrAuthenticationRequired is returned when a remote operation runs without a principal.
var ErrAuthenticationRequired = fmt.Errorf("authentication required")

// ErrValidation marks rejected input: an invalid draft, or a snapshot with no usable records.
var ErrValidation = fmt.Errorf("validation failed")

// ErrRemoteUnavailable is returned when the remote backend is selected but not configured.
var ErrRemoteUnavailable = fmt.Errorf("remote storage is not configured")
