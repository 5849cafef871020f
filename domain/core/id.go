package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 needs the clock; v4 does not
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// RequestID identifies one API request in logs and error bodies
type RequestID ID

func (id RequestID) String() string { return ID(id).String() }

// ParseRequestID accepts a caller-supplied request ID. Blank IDs and IDs
// longer than 128 bytes are rejected.
func ParseRequestID(s string) (RequestID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("request ID cannot be empty")
	}
	if len(s) > 128 {
		return "", fmt.Errorf("request ID longer than 128 bytes")
	}
	return RequestID(s), nil
}
