package dto

// LoginRequestDTO is the raw login body. Fields are pointers so that a missing
// field can be told apart from an empty one during validation.
type LoginRequestDTO struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type LoginResponseDTO struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type LogoutResponseDTO struct {
	Message string `json:"message"`
}
