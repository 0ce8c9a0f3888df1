package models

import "time"

// User is a credential holder. Only the name takes part in ownership checks.
type User struct {
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
