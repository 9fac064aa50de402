package utils

import "github.com/google/uuid"

// GenerateID generates a random ID for entities
func GenerateID() string {
	return uuid.New().String()
}

// EnsureID returns id, or a freshly generated one when id is empty
func EnsureID(id string) string {
	if id == "" {
		return GenerateID()
	}
	return id
}
