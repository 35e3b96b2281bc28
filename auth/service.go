// Package auth handles account registration, sign-in and JWT issuance, and
// provides the middleware and response helpers shared by every HTTP handler.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/greengauge/greengauge-go/apperror"
	"github.com/greengauge/greengauge-go/config"
	"github.com/greengauge/greengauge-go/logging"
	"github.com/greengauge/greengauge-go/validation"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenIssuer      = "greengauge"
)

var lowerCaser = cases.Lower(language.Und)

// AuthService provides authentication-related services.
type AuthService struct {
	users      userRepository
	authConfig config.AuthConfig
	validate   *validator.Validate
	hashCost   int
	now        func() time.Time
}

// NewAuthService creates a new AuthService backed by the users table.
func NewAuthService(dbPool *pgxpool.Pool, authConfig config.AuthConfig) *AuthService {
	return newAuthService(&pgUserRepository{db: dbPool}, authConfig)
}

func newAuthService(users userRepository, authConfig config.AuthConfig) *AuthService {
	return &AuthService{
		users:      users,
		authConfig: authConfig,
		validate:   validation.New(),
		hashCost:   bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// CustomClaims is the JWT payload.
type CustomClaims struct {
	UserID    string `json:"userId"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// normalizeUsername trims and lowercases so "Ada@Example.com " and "ada@example.com" are one account.
func normalizeUsername(s string) string {
	return lowerCaser.String(strings.TrimSpace(s))
}

func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Signup creates a new user and signs them in.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	req.Username = normalizeUsername(req.Username)
	req.FirstName = normalizeName(req.FirstName)
	req.LastName = normalizeName(req.LastName)
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: string(hashedPassword),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, errUsernameTaken) {
			return nil, apperror.NewConflictError("username already taken", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	logging.Infof("user %s signed up", user.ID)

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	resp.Message = "User created successfully"
	return resp, nil
}

// Signin checks credentials and returns a fresh token pair.
func (s *AuthService) Signin(ctx context.Context, req SigninRequest) (*AuthResponse, error) {
	req.Username = normalizeUsername(req.Username)
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			// Same answer as a wrong password.
			return nil, apperror.NewAuthError("invalid credentials", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperror.NewAuthError("invalid credentials", nil)
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, req RefreshTokenRequest) (*AuthResponse, error) {
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}

	claims, err := s.ValidateToken(req.RefreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, apperror.NewAuthError("invalid refresh token", err)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			return nil, apperror.NewAuthError("invalid refresh token", err)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	accessToken, expiresAt, err := s.signToken(user.ID, tokenTypeAccess, s.authConfig.AccessTokenDuration)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:        accessToken,
		RefreshToken: req.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt.Unix(),
		User:         user,
	}, nil
}

func (s *AuthService) issueTokens(user *User) (*AuthResponse, error) {
	accessToken, accessExpiresAt, err := s.signToken(user.ID, tokenTypeAccess, s.authConfig.AccessTokenDuration)
	if err != nil {
		return nil, err
	}
	refreshToken, _, err := s.signToken(user.ID, tokenTypeRefresh, s.authConfig.RefreshTokenDuration)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    accessExpiresAt.Unix(),
		User:         user,
	}, nil
}

func (s *AuthService) signToken(userID, tokenType string, duration time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(duration)
	claims := &CustomClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userID,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.authConfig.JWTSecret))
	if err != nil {
		return "", time.Time{}, apperror.NewInternalError("failed to sign token", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses tokenString and checks its signature, expiry and type.
func (s *AuthService) ValidateToken(tokenString, expectedTokenType string) (*CustomClaims, error) {
	return parseToken(tokenString, s.authConfig.JWTSecret, expectedTokenType)
}

func parseToken(tokenString, secret, expectedTokenType string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.TokenType != expectedTokenType {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", expectedTokenType, claims.TokenType)
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no userId claim")
	}
	return claims, nil
}
