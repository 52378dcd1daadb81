package models

import "time"

// OperationLog is one entry of the operation log: generator commands issued
// through the API plus entries posted by clients.
type OperationLog struct {
	ID      string            `json:"id"`
	UserID  string            `json:"userId"`
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Tags    map[string]string `json:"tags,omitempty"`
	TS      time.Time         `json:"ts"`
}

const (
	OpGeneratorStart = "generator.start"
	OpGeneratorStop  = "generator.stop"
)
