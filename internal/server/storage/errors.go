package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that the user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that a user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrZoneNotFound indicates that the zone has not been created
	ErrZoneNotFound = errors.New("zone not found")

	// ErrRecordNotFound indicates that the record does not exist or is deleted
	ErrRecordNotFound = errors.New("record not found")

	// ErrVersionMismatch indicates that a conditional write lost the race:
	// the stored version differs from the one the client observed
	ErrVersionMismatch = errors.New("record version mismatch")
)
