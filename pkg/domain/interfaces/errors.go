package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is the root of every backend's not-found error. Use cases match on it
// without knowing which backend is configured.
var ErrNotFound = goerr.New("record not found")
