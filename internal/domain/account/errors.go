package account

import "fmt"

// ErrNotFound is returned by repositories when no account matches.
var ErrNotFound = fmt.Errorf("account not found")
