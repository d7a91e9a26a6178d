package response

import (
	"github.com/google/uuid"
)

type RegisterResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	UserID      uuid.UUID `json:"userId"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
