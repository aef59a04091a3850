// Package service holds the use cases behind the HTTP handlers: ownership
// checks, account flows and the favorites ledger.
package service

import "errors"

var (
	// ErrForbidden is returned when a caller modifies a recipe they do not own.
	ErrForbidden = errors.New("service: not recipe owner")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("service: invalid credentials")
	// ErrUserExists is returned when registering an email twice.
	ErrUserExists = errors.New("service: user already exists")
	// ErrAlreadyFavorite is returned when favoriting the same recipe twice.
	ErrAlreadyFavorite = errors.New("service: recipe already in favorites")
)
