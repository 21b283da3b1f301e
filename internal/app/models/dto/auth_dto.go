package dto

// LoginRequest represents login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@classforge.io"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshTokenRequest represents a token refresh request.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"` // access token lifetime, seconds
	TokenType    string `json:"tokenType" example:"Bearer"`
}

// LoginResponse carries the token pair and the authenticated profile.
type LoginResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}
