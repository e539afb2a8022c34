package model

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,max=100"`
}

type AdminAuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	Email     string `json:"email"`
}

type ListAccountsRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}
