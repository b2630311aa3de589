package scheduler

import "errors"

// errAccountNotFound is recorded on a post whose joined social account
// no longer exists.
var errAccountNotFound = errors.New("Social account not found")
