package dto

import "time"

// CreateTeamRequest represents a team creation request
type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	IsPersonal bool      `json:"isPersonal"`
	UserID     int64     `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
}
