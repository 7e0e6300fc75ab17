package service

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"pix-bank-api/config"
	"pix-bank-api/logger"
	"pix-bank-api/model"
	"pix-bank-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

const (
	accessTokenTTL  = 1 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

func getJwtKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), err
}

// CheckPasswordHash compares a plaintext secret against its bcrypt
// hash. bcrypt's comparison is constant-time with respect to the hash,
// which is what makes it safe to use for the transaction password too.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateJWT signs a short-lived access token carrying the user's ID
// and role.
func GenerateJWT(userID int, role model.Role) (string, error) {
	expirationTime := time.Now().Add(accessTokenTTL)

	claims := &model.AppClaims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(getJwtKey())
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// AuthService handles login, token rotation and transaction password
// verification.
type AuthService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
}

func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// LoginResult carries the tokens and the authenticated user returned
// on a successful login or refresh.
type LoginResult struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

// Login verifies the credentials and issues an access token plus a
// rotating refresh token. Only a hash of the refresh token is stored.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh rotates a valid refresh token into a fresh token pair.
func (s *AuthService) Refresh(refreshToken string) (*LoginResult, error) {
	stored, err := s.tokenRepo.GetByTokenHash(hashRefreshToken(refreshToken))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetUserByID(stored.UserID)
	if err != nil {
		return nil, err
	}

	// Rotation: every refresh invalidates all previously issued tokens.
	if err := s.tokenRepo.DeleteByUserID(user.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Logout invalidates all refresh tokens for the user.
func (s *AuthService) Logout(userID int) error {
	return s.tokenRepo.DeleteByUserID(userID)
}

// VerifyTransactionSecret checks the second-factor transaction password
// of a user. The plaintext is never logged or persisted.
func (s *AuthService) VerifyTransactionSecret(userID int, secret string) (bool, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return false, err
	}
	return CheckPasswordHash(secret, user.TransactionPasswordHash), nil
}

func (s *AuthService) issueTokens(user *model.User) (*LoginResult, error) {
	accessToken, err := GenerateJWT(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	record := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashRefreshToken(refreshToken),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func generateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Refresh tokens are high-entropy random values, so a single sha256 is
// enough to keep the stored copy useless to an attacker with database
// access.
func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
