package response

import "github.com/campushub/eventhub/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type SessionResponse struct {
	Status string `json:"status"`
}

type ImageUploadResponse struct {
	ImagePath string `json:"image_path"`
}
