package service

import (
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"

	"fbresponse/internal/models"
	"fbresponse/internal/repository"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is deactivated")
)

var jwtSecret = []byte("supersecretjwtkey")

// SetJWTSecret overrides the signing key from configuration. Called once at
// startup before any token is issued.
func SetJWTSecret(secret string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
}

// GetJWTSecret returns the JWT secret key.
func GetJWTSecret() []byte {
	return jwtSecret
}

type AuthService interface {
	Register(username, email, password string) (*models.User, error)
	Login(username, password string) (string, time.Time, error)
	ChangePassword(username, currentPassword, newPassword string) error
	GetProfile(username string) (*models.User, error)
	Logout(username string) error
}

type authService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewAuthService(repo repository.UserRepository, logger *zap.Logger) AuthService {
	return &authService{repo: repo, logger: logger}
}

func (s *authService) Register(username, email, password string) (*models.User, error) {
	if _, err := s.repo.GetUserByUsername(username); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("Failed to check existing username", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if email != "" {
		if _, err := s.repo.GetUserByEmail(email); err == nil {
			return nil, ErrUserAlreadyExists
		} else if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error("Failed to check existing email", zap.Error(err))
			return nil, fmt.Errorf("failed to check existing users: %w", err)
		}
	}

	passwordHash, err := s.hashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
		IsActive:     true,
	}

	if err := s.repo.CreateUser(user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("username", user.Username))
	return user, nil
}

func (s *authService) Login(username, password string) (string, time.Time, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, ErrUserNotFound
		}
		s.logger.Error("Failed to get user by username", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !user.IsActive {
		return "", time.Time{}, ErrUserInactive
	}

	if !s.verifyPassword(user.PasswordHash, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(user.ID, now); err != nil {
		s.logger.Warn("Failed to update last login", zap.Error(err), zap.String("username", username))
	}

	expirationTime := now.Add(24 * time.Hour)
	claims := &models.Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		s.logger.Error("Failed to generate JWT token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in successfully", zap.String("username", user.Username))
	return tokenString, expirationTime, nil
}

func (s *authService) ChangePassword(username, currentPassword, newPassword string) error {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !s.verifyPassword(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePasswordHash(user.ID, hash); err != nil {
		s.logger.Error("Failed to update password hash", zap.Error(err), zap.String("username", username))
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password changed", zap.String("username", username))
	return nil
}

func (s *authService) GetProfile(username string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

func (s *authService) Logout(username string) error {
	// Tokens are stateless; logout just records the event.
	s.logger.Info("User logged out", zap.String("username", username))
	return nil
}

// hashPassword uses Argon2id to hash the password.
func (s *authService) hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)

	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s", argon2.Version, 64*1024, 1, 4, encodedSalt, encodedHash), nil
}

// verifyPassword compares a plaintext password with a stored encoded hash of
// the form $argon2id$v=19$m=65536,t=1,p=4$salt$hash.
func (s *authService) verifyPassword(hashedPassword, password string) bool {
	var sections []string
	start := 0
	for i := 0; i < len(hashedPassword); i++ {
		if hashedPassword[i] == '$' {
			if i > start {
				sections = append(sections, hashedPassword[start:i])
			}
			start = i + 1
		}
	}
	if start < len(hashedPassword) {
		sections = append(sections, hashedPassword[start:])
	}

	if len(sections) != 5 {
		s.logger.Error("Invalid hash format", zap.Int("sections", len(sections)))
		return false
	}

	var version int
	fmt.Sscanf(sections[1], "v=%d", &version)

	var m, t, p uint32
	fmt.Sscanf(sections[2], "m=%d,t=%d,p=%d", &m, &t, &p)

	decodedSalt, err := base64.RawStdEncoding.DecodeString(sections[3])
	if err != nil {
		s.logger.Error("Failed to decode salt", zap.Error(err))
		return false
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(sections[4])
	if err != nil {
		s.logger.Error("Failed to decode hash", zap.Error(err))
		return false
	}

	comparisonHash := argon2.IDKey([]byte(password), decodedSalt, t, m, uint8(p), uint32(len(decodedHash)))
	return subtle.ConstantTimeCompare(comparisonHash, decodedHash) == 1
}
