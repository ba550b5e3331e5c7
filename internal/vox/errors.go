package vox

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors classifying the HTTP outcome of an analytics call.
// Callers route on these with errors.Is.
var (
	ErrAuth     = errors.New("vox: authentication rejected")
	ErrNotFound = errors.New("vox: not found")
	ErrServer   = errors.New("vox: server error")
	ErrProtocol = errors.New("vox: malformed response")
)

// ValidationError is returned for a 422 response and carries the detail
// body the service sent back, when it was valid JSON.
type ValidationError struct {
	Detail json.RawMessage
}

func (e *ValidationError) Error() string {
	if len(e.Detail) == 0 {
		return "vox: validation failed (422)"
	}
	return fmt.Sprintf("vox: validation failed (422): %s", e.Detail)
}
