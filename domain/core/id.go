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
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
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

// Domain-specific ID types
type (
	DatasetID ID
	OwnerID   ID
)

// String conversions for domain IDs
func (id DatasetID) String() string { return ID(id).String() }
func (id OwnerID) String() string   { return ID(id).String() }

// ParseDatasetID parses a string into DatasetID
func ParseDatasetID(s string) (DatasetID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("dataset ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("dataset ID is not a valid UUID: %w", err)
	}
	return DatasetID(s), nil
}

// ParseOwnerID parses a string into OwnerID
func ParseOwnerID(s string) (OwnerID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("owner ID cannot be empty")
	}
	return OwnerID(s), nil
}
