package common

import (
	"github.com/google/uuid"
)

// NewEntityID generates a unique entity ID with the "ent_" prefix
func NewEntityID() string {
	return "ent_" + uuid.New().String()
}

// NewSignalID generates a unique growth signal ID with the "sig_" prefix
func NewSignalID() string {
	return "sig_" + uuid.New().String()
}
