package auth

type RegisterInstitutionRequest struct {
	Email           string `json:"email" validate:"required,email"`
	InstitutionName string `json:"institution_name" validate:"required,min=3,max=120"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
}

type LoginUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginUserResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   int64       `json:"expires_at"`
	User        UserProfile `json:"user"`
}

type UserProfile struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	InstitutionName string `json:"institution_name"`
	Role            string `json:"role"`
}
