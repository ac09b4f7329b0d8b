package service

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("personality profile not found")

	ErrInvalidFeatureType   = errors.New("invalid feature type")
	ErrFeatureAlreadyActive = errors.New("feature already active")
	ErrInvalidDuration      = errors.New("duration must be a positive number of days")

	ErrTicketNotFound = errors.New("support ticket not found")
)
