package util

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// GenerateID returns a uuid-v4 string to use as request id.
func GenerateID() string {
	return uuid.NewString()
}

// NewULID returns a lexicographically sortable id, used where ids should sort by creation time.
func NewULID() string {
	return ulid.Make().String()
}
