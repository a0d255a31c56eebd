package domain

import "errors"

// ErrNotFound is returned by repositories when no row matches.
// Profile lookups treat it as a recoverable condition, not a failure.
var ErrNotFound = errors.New("resource not found")

// ErrNoActiveUser is returned by session operations that require an
// authenticated user while the controller is anonymous.
var ErrNoActiveUser = errors.New("no active user")
