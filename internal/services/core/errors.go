// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package core

import (
	"errors"
	"fmt"
	"net/http"
)

// The four error kinds every backend operation reduces to. Status fetches
// convert them into ServiceStatus records; CRUD proxies hand them to the
// HTTP layer unchanged.

// TransportError means the backend could not be reached at all.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError means the backend answered with a non-success status code.
// Excerpt optionally carries the start of the response body.
type HTTPError struct {
	StatusCode int
	Excerpt    string
}

func (e *HTTPError) Error() string {
	if e.Excerpt != "" {
		return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Excerpt)
	}
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ParseError means the backend returned success but the body did not match
// the expected shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ProtocolError means a backend-specific handshake broke an invariant, e.g.
// Transmission responding with something other than success or 409.
type ProtocolError struct {
	Op         string
	StatusCode int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: unexpected HTTP %d", e.Op, e.StatusCode)
}

// BodyExcerpt truncates a response body for use in HTTPError messages.
func BodyExcerpt(body []byte, max int) string {
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max])
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
