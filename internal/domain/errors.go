package domain

import "errors"

// ErrUnauthorized is returned by the gateway when the API responds with HTTP 401.
// Callers can check for it using errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// ErrAgentRejected is returned when the gateway answers but reports success=false.
var ErrAgentRejected = errors.New("agent rejected the request")

// ErrEmptyResult is returned when a success-shaped response carries no result payload.
var ErrEmptyResult = errors.New("agent returned no result")
