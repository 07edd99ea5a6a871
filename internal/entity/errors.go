package entity

import "errors"

var (
	// Settings errors
	ErrSettingsNotFound = errors.New("notification settings not found")
	ErrInvalidPhone     = errors.New("invalid phone number format")
	ErrInvalidTimezone  = errors.New("invalid timezone")
	ErrInvalidSendTime  = errors.New("invalid send time, expected HH:MM")

	// Delivery errors
	ErrDeliveryNotFound = errors.New("delivery record not found")

	// Task errors
	ErrTaskNotFound = errors.New("task not found")

	// General errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrDatabaseError = errors.New("database error")
	ErrUnauthorized  = errors.New("unauthorized access")
)
