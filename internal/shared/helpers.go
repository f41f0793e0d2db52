// Package shared provides common utility functions used across multiple
// packages in the maven-promote codebase.
package shared

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Message prefixes the CLI keys exit codes on.
const (
	UnreachablePrefix = "repository not reachable"
	LockHeldPrefix    = "promotion lock held"
)

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, strings.TrimSpace(body))
}

// ConfigurationError reports missing or invalid settings. It is raised
// before any network call.
func ConfigurationError(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}

// TransportUnreachable reports a repository that did not answer its
// liveness check.
func TransportUnreachable(url string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s: %s", UnreachablePrefix, url))
	if cause != nil {
		return builder.WithCause(cause)
	}
	return builder
}

// ResolutionError reports that no version satisfied an identifier.
func ResolutionError(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(msg)
}
