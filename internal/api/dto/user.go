package dto

// UserDTO represents a user in API responses
type UserDTO struct {
	ID            int64   `json:"id"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	EmailVerified bool    `json:"emailVerified"`
	IsAdmin       bool    `json:"isAdmin"`
	Locale        string  `json:"locale"`
	Timezone      *string `json:"timezone,omitempty"`
}
