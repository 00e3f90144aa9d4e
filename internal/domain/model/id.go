package model

import "github.com/google/uuid"

// generateID returns a random identifier used to correlate a trigger across
// log lines and audit rows.
func generateID() string {
	return uuid.NewString()
}
