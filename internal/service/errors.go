// Package service implements the application services between the HTTP
// layer and storage: trip and roster management, expense and settlement
// recording, authentication, and the balance computations built on
// internal/engine.
package service

import "errors"

// ErrInvalidInput marks validation failures callers should map to a 400.
var ErrInvalidInput = errors.New("invalid input")

// ErrForbidden marks requests by a user who may not act on the resource.
var ErrForbidden = errors.New("forbidden")
