package domain

import "time"

// Session binds an opaque bearer token to one identity.
// Never mutated after creation; removed on expiry or logout.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
}

// Account is the stored credential record for a username.
type Account struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}
