package dto

// SignupRequest captures self-service registration input.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest captures credential input.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordRequest asks the provider to start its recovery flow.
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// UpdatePasswordRequest replaces the caller's credential secret.
type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// SessionResponse contains the provider-issued access token and the
// resolved user record.
type SessionResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}
