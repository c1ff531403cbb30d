package team

import "time"

// Team represents a billing tenant. Every user owns exactly one
// personal team; additional teams can be created on demand.
type Team struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	IsPersonal bool      `json:"is_personal"`
	UserID     int64     `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
