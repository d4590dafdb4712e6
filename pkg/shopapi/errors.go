package shopapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError reports a request the shop API answered with a failure envelope
// or a non-2xx status.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// ServerMessage is the text the shop API wants the shopper to see.
func (e *APIError) ServerMessage() string {
	return e.Message
}

// envelope is the common part of every shop API response.
type envelope struct {
	Success *bool           `json:"success"`
	Message json.RawMessage `json:"message"`
}

// message flattens the "message" field, which is either a string or a list
// of strings for validation failures.
func (e envelope) message() string {
	if len(e.Message) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(e.Message, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(e.Message, &many); err == nil {
		return strings.Join(many, ", ")
	}
	return strings.Trim(string(e.Message), `"`)
}
