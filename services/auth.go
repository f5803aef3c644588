package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/Kariqs/tannaro-api/repository"
	"github.com/Kariqs/tannaro-api/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	minPasswordLength = 6

	msgInvalidCredentials = "Invalid email or password"
	msgInvalidToken       = "Invalid or expired token"
)

type AuthService struct {
	users  repository.UserRepository
	secret string
	ttl    time.Duration
	log    *slog.Logger
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:  users,
		secret: secret,
		ttl:    ttl,
		log:    logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) TokenTTL() time.Duration { return s.ttl }

func (s *AuthService) Register(ctx context.Context, data models.RegisterData) (models.User, error) {
	name := strings.TrimSpace(data.Name)
	email := strings.ToLower(strings.TrimSpace(data.Email))
	if name == "" || email == "" || data.Password == "" {
		return models.User{}, utils.NewValidationError("Name, email, and password are required")
	}
	if len(data.Password) < minPasswordLength {
		return models.User{}, utils.NewValidationError("Password must be at least 6 characters long")
	}

	_, err := s.users.FindUserByEmail(ctx, email)
	if err == nil {
		return models.User{}, utils.NewValidationError("User with this email already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log.Error("database error during user check", "error", err)
		return models.User{}, utils.Dependency("check user", err)
	}

	hashed, err := utils.HashPassword(data.Password)
	if err != nil {
		s.log.Error("password hashing error", "error", err)
		return models.User{}, utils.Dependency("hash password", err)
	}

	at := s.now()
	user := models.User{
		Name:      name,
		Email:     email,
		Password:  hashed,
		Phone:     strings.TrimSpace(data.Phone),
		Role:      models.RoleUser,
		CreatedAt: at,
		UpdatedAt: at,
	}
	err = s.users.InsertUser(ctx, &user)
	if errors.Is(err, repository.ErrDuplicate) {
		return models.User{}, utils.NewValidationError("User with this email already exists")
	}
	if err != nil {
		s.log.Error("user creation error", "error", err)
		return models.User{}, utils.Dependency("create user", err)
	}
	s.log.Info("user registered", "userId", user.ID.Hex())
	return user, nil
}

// authenticate answers the same way for an unknown account, a wrong password
// and a role mismatch.
func (s *AuthService) authenticate(ctx context.Context, data models.LoginData, role string) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(data.Email))
	if email == "" || data.Password == "" {
		return models.User{}, utils.NewValidationError("Email and password are required")
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, &utils.AuthenticationError{Message: msgInvalidCredentials}
	}
	if err != nil {
		s.log.Error("failed to look up user", "error", err)
		return models.User{}, utils.Dependency("find user", err)
	}
	if role != "" && user.Role != role {
		return models.User{}, &utils.AuthenticationError{Message: msgInvalidCredentials}
	}
	if err := utils.ComparePasswords(user.Password, data.Password); err != nil {
		return models.User{}, &utils.AuthenticationError{Message: msgInvalidCredentials}
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, data models.LoginData) (models.User, error) {
	return s.authenticate(ctx, data, "")
}

// AdminLogin checks admin credentials and issues a session token.
func (s *AuthService) AdminLogin(ctx context.Context, data models.LoginData) (models.User, string, error) {
	user, err := s.authenticate(ctx, data, models.RoleAdmin)
	if err != nil {
		return models.User{}, "", err
	}

	token, err := utils.GenerateAdminToken(user, s.secret, s.ttl)
	if err != nil {
		s.log.Error("jwt generation error", "error", err)
		return models.User{}, "", utils.Dependency("sign token", err)
	}
	s.log.Info("admin logged in", "userId", user.ID.Hex())
	return user, token, nil
}

// VerifyAdmin resolves a session token to an account that still exists and
// still holds the admin role.
func (s *AuthService) VerifyAdmin(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, &utils.AuthenticationError{Message: "Unauthorized"}
	}
	claims, err := utils.ParseAdminToken(token, s.secret)
	if err != nil {
		return models.User{}, &utils.AuthenticationError{Message: msgInvalidToken}
	}
	oid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.User{}, &utils.AuthenticationError{Message: msgInvalidToken}
	}

	user, err := s.users.GetUser(ctx, oid)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, &utils.AuthenticationError{Message: msgInvalidToken}
	}
	if err != nil {
		s.log.Error("failed to verify admin", "error", err)
		return models.User{}, utils.Dependency("find user", err)
	}
	if user.Role != models.RoleAdmin {
		return models.User{}, &utils.AuthenticationError{Message: msgInvalidToken}
	}
	return user, nil
}

// SeedAdmin creates the bootstrap admin, or resets its password when the
// account already exists.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	if len(password) < minPasswordLength {
		return utils.NewValidationError("Password must be at least 6 characters long")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return utils.Dependency("hash password", err)
	}

	at := s.now()
	existing, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		existing.Password = hashed
		existing.Role = models.RoleAdmin
		existing.UpdatedAt = at
		if err := s.users.ReplaceUser(ctx, existing); err != nil {
			return utils.Dependency("update admin", err)
		}
		s.log.Info("admin account updated", "email", email)
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return utils.Dependency("find admin", err)
	}

	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	admin := models.User{
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  hashed,
		Role:      models.RoleAdmin,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := s.users.InsertUser(ctx, &admin); err != nil {
		return utils.Dependency("create admin", err)
	}
	s.log.Info("admin account created", "email", email)
	return nil
}

// LoginLimiter allows Limit attempts per key inside Window. A successful login
// should Reset the key.
type LoginLimiter struct {
	attempts repository.AttemptRepository
	Limit    int
	Window   time.Duration
	log      *slog.Logger
}

func NewLoginLimiter(attempts repository.AttemptRepository, limit int, window time.Duration, logger *slog.Logger) *LoginLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginLimiter{attempts: attempts, Limit: limit, Window: window, log: logger}
}

// Allow records an attempt for key and returns utils.ErrRateLimited once the
// window is exhausted. A store failure lets the attempt through.
func (l *LoginLimiter) Allow(ctx context.Context, key string) error {
	count, err := l.attempts.HitAttempt(ctx, key, l.Window)
	if err != nil {
		l.log.Error("rate limit store unavailable", "key", key, "error", err)
		return nil
	}
	if count > l.Limit {
		l.log.Warn("login rate limit exceeded", "key", key, "attempts", count)
		return utils.ErrRateLimited
	}
	return nil
}

func (l *LoginLimiter) Reset(ctx context.Context, key string) {
	if err := l.attempts.ResetAttempts(ctx, key); err != nil {
		l.log.Error("failed to reset login attempts", "key", key, "error", err)
	}
}
