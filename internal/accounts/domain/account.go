package domain

import "time"

// Account is a registered user. PasswordHash is the encoded credential and
// must never leave the service layer.
type Account struct {
	ID           string
	Username     string // case-sensitive, unique
	Email        string // stored trimmed and lower-cased, unique
	PasswordHash string
	Roles        []Role
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoleNames returns the names of the account's roles in stored order.
func (a Account) RoleNames() []string {
	names := make([]string, 0, len(a.Roles))
	for _, r := range a.Roles {
		names = append(names, r.Name)
	}
	return names
}
