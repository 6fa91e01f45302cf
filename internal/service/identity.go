// Package service contains the business logic layer: registration and
// login, the follow graph, ideas and likes, and feed composition.
//
// Services accept primitives and return models plus apperror values; they
// know nothing about HTTP. Handlers translate in both directions.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rafid/ideafeed/internal/apperror"
	"github.com/rafid/ideafeed/internal/auth"
	"github.com/rafid/ideafeed/internal/model"
	"github.com/rafid/ideafeed/internal/repository"
)

// invalidCredentials is the single message every authentication failure
// produces. "No such account", "several accounts share this email" and
// "wrong password" must be indistinguishable to the caller.
const invalidCredentials = "invalid login credentials"

// RegisterInput is the registration form. The validate tags encode the
// rules; every violated rule is reported, not just the first.
type RegisterInput struct {
	Name         string `json:"name"         validate:"min=3"`
	Alias        string `json:"alias"        validate:"min=3"`
	Email        string `json:"email"        validate:"email"`
	Password     string `json:"password"     validate:"min=8"`
	Confirmation string `json:"confirmation" validate:"eqfield=Password"`
}

// IdentityService handles registration and credential verification.
type IdentityService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewIdentityService creates an IdentityService.
func NewIdentityService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *IdentityService {
	return &IdentityService{
		users:     users,
		passwords: passwords,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Register validates the input, hashes the password and stores the new
// account. On validation failure it returns an *apperror.ValidationErrors
// carrying one message per violated rule and creates nothing.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Alias = strings.TrimSpace(input.Alias)
	input.Email = strings.TrimSpace(input.Email)

	if verr := s.checkRegistration(input); !verr.Empty() {
		return nil, verr
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("service/identity: hashing password: %w", err)
	}

	user := &model.User{
		Name:         input.Name,
		Alias:        input.Alias,
		Email:        input.Email,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user",
			slog.String("email", input.Email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/identity: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("alias", user.Alias),
	)

	return user, nil
}

// checkRegistration runs the validator and converts its per-field report
// into the fixed rule messages, in a stable field order.
func (s *IdentityService) checkRegistration(input RegisterInput) *apperror.ValidationErrors {
	verr := &apperror.ValidationErrors{}

	err := s.validate.Struct(input)
	if err == nil {
		return verr
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.Add("", "invalid registration input")
		return verr
	}

	// The validator reports at most one violation per field; collect them
	// keyed by struct field so the output order below is deterministic.
	failed := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		failed[fe.Field()] = true
	}

	if failed["Name"] {
		verr.Add("name", "name is not long enough")
	}
	if failed["Alias"] {
		verr.Add("alias", "alias is not long enough")
	}
	if failed["Email"] {
		verr.Add("email", "invalid email")
	}
	if failed["Password"] {
		verr.Add("password", "password is not long enough")
	}
	if failed["Confirmation"] {
		verr.Add("confirmation", "passwords do not match")
	}

	return verr
}

// Authenticate verifies an email/password pair and returns the account on
// success. Login succeeds only when exactly one account is registered under
// the email AND the password matches its hash; every failure mode yields
// the same ErrUnauthorized.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)

	matches, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service/identity: looking up email: %w", err)
	}

	if len(matches) != 1 {
		// Zero matches or an ambiguous duplicate: same uniform failure.
		s.logger.Info("login rejected",
			slog.String("email", email),
			slog.Int("matches", len(matches)),
		)
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	user := matches[0]
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("login rejected", slog.String("userID", user.ID))
		return nil, apperror.Unauthorized(invalidCredentials)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return &user, nil
}

// GetByID returns the account for an id, or ErrNotFound.
func (s *IdentityService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, id)
}

// ListUsers returns the user directory.
func (s *IdentityService) ListUsers(ctx context.Context, limit, offset int) ([]model.User, error) {
	users, err := s.users.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("service/identity: listing users: %w", err)
	}
	return users, nil
}
