package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new random identifier, used for sweep runs and outbound events
func GenerateID() string {
	return uuid.NewString()
}
