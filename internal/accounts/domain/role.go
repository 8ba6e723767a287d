package domain

import "time"

// Role is a named group attached to accounts. Roles are created on first use
// and never modified afterwards.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
