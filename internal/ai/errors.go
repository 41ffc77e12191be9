// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidModel is returned when the model selector is not in the
	// allow-list. No network call is made.
	ErrInvalidModel = errors.New("ai: unknown model selector")

	// ErrInvalidCredential is returned when the API key does not match the
	// expected prefix format. This is a cheap fast-fail, not a guarantee of
	// validity against the remote service.
	ErrInvalidCredential = errors.New("ai: credential does not look like an API key")

	// ErrEmptyCompletion is returned when the service responds successfully
	// but the first choice carries no text content.
	ErrEmptyCompletion = errors.New("ai: empty completion content")
)

// UpstreamError carries the status code and response body of a non-success
// reply from the chat-completion service, for diagnostic surfacing. The
// request is never retried.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai: upstream error (status %d): %s", e.Status, e.Body)
}
