package auth

// SignupRequest is the body of POST /signup. The username is an email address.
type SignupRequest struct {
	Username  string `json:"username" validate:"required,email,max=254" example:"ada@example.com"`
	FirstName string `json:"firstName" validate:"required,max=50" example:"Ada"`
	LastName  string `json:"lastName" validate:"required,max=50" example:"Lovelace"`
	Password  string `json:"password" validate:"required,min=6,max=72" example:"correct-horse"`
}

// SigninRequest is the body of POST /signin.
type SigninRequest struct {
	Username string `json:"username" validate:"required,email" example:"ada@example.com"`
	Password string `json:"password" validate:"required" example:"correct-horse"`
}

// RefreshTokenRequest is the body of POST /auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// AuthResponse is returned by signup, signin and refresh.
type AuthResponse struct {
	Message      string `json:"message,omitempty" example:"User created successfully"`
	Token        string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string `json:"tokenType" example:"Bearer"`
	// ExpiresAt is the access token expiry as a Unix timestamp.
	ExpiresAt int64 `json:"expiresAt" example:"1767225600"`
	User      *User `json:"user,omitempty"`
}
