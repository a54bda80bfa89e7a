package backend

import "CareerNav/internal/career"

// TokenResponse is the login response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SignupRequest is the signup body.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UserUpdateRequest changes profile fields; nil fields are left alone.
type UserUpdateRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// PasswordChangeRequest is the change-password body.
type PasswordChangeRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// User is the profile returned by /users endpoints.
type User struct {
	ID    FlexID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUser validates and maps a profile.
func ToUser(u User) (career.User, error) {
	if u.Email == "" {
		return career.User{}, malformed("user without email")
	}
	return career.User{ID: string(u.ID), Name: u.Name, Email: u.Email}, nil
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
