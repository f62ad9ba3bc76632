package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("email already registered")

	// Game errors
	ErrGameNotFound = errors.New("game not found")
	ErrSelfInvite   = errors.New("cannot invite yourself")
)
