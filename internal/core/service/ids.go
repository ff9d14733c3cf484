package service

import (
	"time"

	"github.com/google/uuid"
)

// newID returns a time-ordered, collision-free identifier (UUIDv7).
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func utcNow() time.Time {
	return time.Now().UTC()
}
