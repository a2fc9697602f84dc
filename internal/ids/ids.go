package ids

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns a random UUID string, matching the session ID format the
// Claude CLI itself uses.
func New() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("uuid: %w", err)
	}
	return id.String(), nil
}
