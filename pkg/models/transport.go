package models

import apperrors "corri/internal/errors"

// ErrorResponse is the JSON body of every non-200 reply
type ErrorResponse struct {
	Error string     `json:"error"`
	Kind  string     `json:"kind,omitempty"`
	Debug *DebugInfo `json:"debug,omitempty"`
}

// DebugInfo carries diagnostics that clients must not depend on
type DebugInfo struct {
	Raw    string            `json:"raw,omitempty"`
	Issues []apperrors.Issue `json:"issues,omitempty"`
}

// HealthResponse is returned by the liveness endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Time     string `json:"time"`
}
