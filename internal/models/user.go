package models

import "time"

// User is a signed-in user profile, keyed by the identity provider's
// subject id. Upserted on every sign-in.
type User struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Provider    string    `json:"provider"`
	LastLogin   time.Time `json:"last_login"`
	CreatedAt   time.Time `json:"created_at"`
}
