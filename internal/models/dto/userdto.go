package dto

type UserSignupRequestDTO struct {
	Username        *string `json:"username"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"password_confirm"`
}

type UserSignupResponseDTO struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id,omitempty"`
}
