package storage

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrBadSessionKey   = errors.New("invalid session key")
)
