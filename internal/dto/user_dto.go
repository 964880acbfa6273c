package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// RegisterRequest is the body of POST /users/register.
// @Description Request body for registering a doctor account
type RegisterRequest struct {
	Email    string `json:"email" example:"house@princeton-plainsboro.org"`
	Password string `json:"password" example:"vicodin123"`
	Username string `json:"username,omitempty" example:"ghouse"`
}

// LoginRequest is the body of POST /auth/token.
// @Description Request body for password login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// TokenResponse represents the response containing access and refresh tokens.
// @Description Response body for authentication tokens
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokenRequest represents the request body for refreshing a token.
// @Description Request body for refreshing JWT tokens
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ProfileResponse is a leaderboard entry or the caller's own profile.
type ProfileResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Points   int    `json:"points"`
	Rank     int    `json:"rank"`
}

// TopUsersResponse is the public leaderboard.
type TopUsersResponse struct {
	Users []ProfileResponse `json:"users"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}

// Pagination defines query parameters for paginated requests.
type Pagination struct {
	Limit int `query:"limit"`
	Page  int `query:"page"`
}

// Offset converts the 1-based page into a row offset.
func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// PaginationInfo defines pagination details for responses.
type PaginationInfo struct {
	TotalItems  int `json:"total_items"`
	Limit       int `json:"limit"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

func NewPaginationInfo(total int, p Pagination) PaginationInfo {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	page := p.Page
	if page < 1 {
		page = 1
	}
	return PaginationInfo{TotalItems: total, Limit: p.Limit, CurrentPage: page, TotalPages: pages}
}
