package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/repositories"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 10 * time.Minute

type AuthService interface {
	CreateAccount(ctx context.Context, input CreateAccountInput) (*models.User, error)
	ConfirmAccount(ctx context.Context, tokenValue string) error
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	RequestConfirmationCode(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ValidateToken(ctx context.Context, tokenValue string) error
	UpdatePasswordWithToken(ctx context.Context, tokenValue, newPassword string) error
}

type CreateAccountInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	mailer    Mailer
	logger    *slog.Logger
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	mailer Mailer,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mailer,
		logger:    logger,
	}
}

func (s *authService) CreateAccount(ctx context.Context, input CreateAccountInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidationFailed)
	}
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if input.Password != input.PasswordConfirmation {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidationFailed)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Confirmed:    false,
		Role:         models.RoleViewer,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.issueToken(ctx, user, s.mailer.SendConfirmationEmail); err != nil {
		// The account exists; the user can request a fresh code later.
		s.logger.Error("failed to issue confirmation token",
			slog.Int("user_id", user.ID), slog.Any("error", err))
	}

	return user, nil
}

func (s *authService) ConfirmAccount(ctx context.Context, tokenValue string) error {
	token, err := s.consumableToken(ctx, tokenValue)
	if err != nil {
		return err
	}

	if err := s.userRepo.Confirm(ctx, token.UserID); err != nil {
		return fmt.Errorf("failed to confirm account: %w", err)
	}

	// One-shot: the token is gone after a successful use.
	if err := s.tokenRepo.Delete(ctx, token.ID); err != nil && !errors.Is(err, repositories.ErrTokenNotFound) {
		return fmt.Errorf("failed to consume token: %w", err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if !user.Confirmed {
		if err := s.issueToken(ctx, user, s.mailer.SendConfirmationEmail); err != nil {
			s.logger.Error("failed to re-issue confirmation token",
				slog.Int("user_id", user.ID), slog.Any("error", err))
		}
		return nil, ErrAccountNotConfirmed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) RequestConfirmationCode(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user by email: %w", err)
	}
	if user.Confirmed {
		return fmt.Errorf("%w: account is already confirmed", ErrValidationFailed)
	}
	return s.issueToken(ctx, user, s.mailer.SendConfirmationEmail)
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// Do not reveal whether the email is registered.
			return nil
		}
		return fmt.Errorf("failed to find user by email: %w", err)
	}
	return s.issueToken(ctx, user, s.mailer.SendPasswordResetEmail)
}

func (s *authService) ValidateToken(ctx context.Context, tokenValue string) error {
	_, err := s.consumableToken(ctx, tokenValue)
	return err
}

func (s *authService) UpdatePasswordWithToken(ctx context.Context, tokenValue, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	token, err := s.consumableToken(ctx, tokenValue)
	if err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return fmt.Errorf("failed to load token owner: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.tokenRepo.Delete(ctx, token.ID); err != nil && !errors.Is(err, repositories.ErrTokenNotFound) {
		return fmt.Errorf("failed to consume token: %w", err)
	}
	return nil
}

// consumableToken loads the token and checks expiry. Expired tokens are
// removed eagerly instead of waiting for the background sweep.
func (s *authService) consumableToken(ctx context.Context, value string) (*models.Token, error) {
	token, err := s.tokenRepo.GetByValue(ctx, value)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if token.Expired(time.Now()) {
		if err := s.tokenRepo.Delete(ctx, token.ID); err != nil && !errors.Is(err, repositories.ErrTokenNotFound) {
			s.logger.Error("failed to delete expired token", slog.Any("error", err))
		}
		return nil, ErrTokenInvalid
	}
	return token, nil
}

// issueToken replaces any outstanding token for the account: only the
// most recently mailed code is accepted.
func (s *authService) issueToken(ctx context.Context, user *models.User, send func(email, name, token string) error) error {
	if err := s.tokenRepo.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to clear previous tokens: %w", err)
	}

	token := &models.Token{
		Value:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(tokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	if err := send(user.Email, user.Name, token.Value); err != nil {
		// The token is valid either way; delivery problems only get logged.
		s.logger.Error("failed to send token email",
			slog.Int("user_id", user.ID), slog.Any("error", err))
	}
	return nil
}
