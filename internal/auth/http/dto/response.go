package dto

import (
	authDomain "github.com/allisson/quizly/internal/auth/domain"
)

// Response messages of the session endpoints.
const (
	MsgLoginSuccessful     = "Login successful"
	MsgInvalidCredentials  = "Invalid username or password"
	MsgTokenRefreshed      = "Token refreshed"
	MsgInvalidRefreshToken = "Invalid refresh token"
	MsgLogoutSuccessful    = "Log-Out successfully! All Tokens will be deleted. Refresh token is now invalid."
)

// UserResponse is the public projection of the logged-in user.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Detail string       `json:"detail"`
	User   UserResponse `json:"user"`
}

// DetailResponse carries a human readable outcome.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// MessageErrorResponse is the flat error body used by login and refresh.
type MessageErrorResponse struct {
	Error string `json:"error"`
}

// MapPrincipalToLoginResponse builds the login response for principal.
func MapPrincipalToLoginResponse(principal authDomain.Principal) LoginResponse {
	return LoginResponse{
		Detail: MsgLoginSuccessful,
		User: UserResponse{
			ID:       principal.ID.String(),
			Username: principal.Username,
			Email:    principal.Email,
		},
	}
}
