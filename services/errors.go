package services

import "errors"

var (
	// ErrProfileNotFound means the caller has no local profile yet.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrConcurrentUpdate means the profile kept changing under us.
	ErrConcurrentUpdate = errors.New("profile was updated concurrently, retry the action")
	// ErrInvalidContentID is returned for academy content ids that normalise to nothing.
	ErrInvalidContentID = errors.New("invalid academy content id")
)
