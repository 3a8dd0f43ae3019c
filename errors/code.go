package errors

import (
	"net/http"
)

// The error taxonomy: validation failures are bad requests, missing
// sessions are unauthorized, role and ownership violations are
// forbidden, unknown targets are not found, and edits to the frozen
// fields of a published public work are conflicts.
func BadRequest() ErrorEnricher   { return WithCode(http.StatusBadRequest) }
func Unauthorized() ErrorEnricher { return WithCode(http.StatusUnauthorized) }
func Forbidden() ErrorEnricher    { return WithCode(http.StatusForbidden) }
func NotFound() ErrorEnricher     { return WithCode(http.StatusNotFound) }
func Conflict() ErrorEnricher     { return WithCode(http.StatusConflict) }

func IsNotFound(err error) bool { return Code(err) == http.StatusNotFound }
