package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "stockroom/internal/errors"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/session"
)

const bcryptCost = 10

// dummyHash is compared against when the username is unknown so that the
// unknown-user path costs the same as a wrong-password one.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("stockroom-dummy"), bcryptCost)

// AuthService handles registration, credential checks and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*session.Session, error)
	Authenticate(ctx context.Context, username, password string) (*session.Session, error)
	VerifyCredentials(ctx context.Context, username, password string) (*model.User, error)
	DestroySession(ctx context.Context, sessionID string) error
}

type authService struct {
	userRepo repository.UserRepository
	sessions session.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, sessions session.Store) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
	}
}

// Register creates a new user with a hashed password and starts a session,
// identical to a successful login.
func (s *authService) Register(ctx context.Context, username, password, email string) (*session.Session, error) {
	if err := validateRegistration(username, password, email); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUsernameTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashed),
		Email:        email,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.startSession(ctx, user)
}

// Authenticate verifies credentials and starts a session.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*session.Session, error) {
	user, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, user)
}

// VerifyCredentials checks a username/password pair. Unknown usernames and
// wrong passwords fail with the same error.
func (s *authService) VerifyCredentials(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		// Burn a hash comparison anyway so the two failure paths do not
		// differ in timing.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// DestroySession invalidates the cookie-bound session.
func (s *authService) DestroySession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *authService) startSession(ctx context.Context, user *model.User) (*session.Session, error) {
	id, err := session.GenerateID()
	if err != nil {
		return nil, err
	}

	sess := session.Session{
		ID: id,
		Snapshot: session.Snapshot{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
		ExpiresAt: time.Now().Add(session.TTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &sess, nil
}

func validateRegistration(username, password, email string) error {
	var fields []apperrors.FieldError
	if len(strings.TrimSpace(username)) < 3 {
		fields = append(fields, apperrors.FieldError{
			Field:   "username",
			Message: "username must be at least 3 characters",
		})
	}
	if len(password) < 6 {
		fields = append(fields, apperrors.FieldError{
			Field:   "password",
			Message: "password must be at least 6 characters",
		})
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			fields = append(fields, apperrors.FieldError{
				Field:   "email",
				Message: "email must be a valid address",
			})
		}
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}
