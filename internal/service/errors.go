package service

import "strings"

// ValidationError carries every violation found in a document draft. Handlers
// unpack it so the client sees the full list in one response instead of
// fixing violations one at a time.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}
