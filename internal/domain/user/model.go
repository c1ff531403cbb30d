package user

import "time"

// User represents a registered account. Users are never hard-deleted;
// teams reference them with restrict foreign keys.
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PasswordHash  *string   `json:"-"`
	EmailVerified bool      `json:"email_verified"`
	IsAdmin       bool      `json:"is_admin"`
	Locale        string    `json:"locale"`
	Timezone      *string   `json:"timezone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultLocale is assigned when registration omits a locale.
const DefaultLocale = "en"
