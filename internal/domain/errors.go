package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrPassengerNotFound  = errors.New("passenger does not exist")
	ErrFlightFull         = errors.New("flight is full")
	ErrInvalidCapacity    = errors.New("invalid capacity")
	ErrInvalidFlight      = errors.New("invalid flight")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionNotFound    = errors.New("session not found")
)
