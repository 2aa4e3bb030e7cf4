package models

import "github.com/pkg/errors"

// Общая таксономия, которую разделяют storage, сервис и API.
var (
	ErrNotFound   = errors.New("parcel not found")
	ErrConflict   = errors.New("tracking number already exists")
	ErrValidation = errors.New("validation failed")
)
