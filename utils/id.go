package utils

import "github.com/google/uuid"

// GenerateID generates a random instance ID
func GenerateID() string {
	return uuid.NewString()
}
