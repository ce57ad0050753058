package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"job-tracker/internal/models"
	"job-tracker/internal/session"
	"job-tracker/internal/storage"
	"job-tracker/internal/transport/dto"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	store    storage.Store
	sessions *session.Manager
}

// NewUserService creates a new instance of UserService.
func NewUserService(store storage.Store, sessions *session.Manager) UserService {
	return &userService{store: store, sessions: sessions}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(req *dto.SignupRequest) error {
	var v validation
	if strings.TrimSpace(req.Name) == "" {
		v.add("Name is required")
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		v.add("Email is required")
	} else if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		v.add("Invalid email format")
	}
	if req.Password == "" {
		v.add("Password is required")
	}
	if req.Password != req.ConfirmPassword {
		v.add("Passwords do not match")
	}
	return v.err()
}

// Signup registers an account and logs it in.
func (s *userService) Signup(ctx context.Context, req *dto.SignupRequest) (*AuthResult, error) {
	if err := validateSignup(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("UserService: Error hashing password for %s: %v", email, err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.Users().Create(ctx, &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			log.WithField("email", email).Warn("Signup rejected: email already exists")
			return nil, fmt.Errorf("%w: email already exists", ErrConflict)
		}
		return nil, MapRepoError(err, "create user")
	}

	log.WithField("user_id", user.ID).Info("User signed up")
	return s.issue(user)
}

func (s *userService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("Login attempt failed for email %s: user not found", email)
			return nil, ErrInvalidCredentials
		}
		return nil, MapRepoError(err, "login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Printf("Login attempt failed for email %s: invalid password", email)
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *userService) issue(user *models.User) (*AuthResult, error) {
	token, sess, err := s.sessions.Issue(user)
	if err != nil {
		log.Printf("Error generating session token for user %s: %v", user.ID, err)
		return nil, fmt.Errorf("failed to generate login token: %w", err)
	}
	return &AuthResult{User: user, Token: token, Session: sess}, nil
}

// Logout revokes the session for the rest of its lifetime.
func (s *userService) Logout(ctx context.Context, sess *session.Session) error {
	if err := s.sessions.Revoke(ctx, sess); err != nil {
		log.Printf("Error revoking session for user %s: %v", sess.UserID, err)
		return fmt.Errorf("failed to log out: %w", err)
	}
	log.WithField("user_id", sess.UserID).Info("User logged out")
	return nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, MapRepoError(err, "get user")
	}
	return user, nil
}
