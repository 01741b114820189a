package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vibast-solutions/ms-go-adminpanel/app/entity"
	"github.com/vibast-solutions/ms-go-adminpanel/app/repository"
	"github.com/vibast-solutions/ms-go-adminpanel/config"
)

// Mailer dispatches the rendered password reset email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, user *entity.User, actionLink string) error
}

type PasswordResetService struct {
	userRepo    *repository.UserRepository
	resetRepo   *repository.PasswordResetRepository
	sessionRepo *repository.SessionRepository
	mailer      Mailer
	cfg         *config.Config
	now         func() time.Time
}

func NewPasswordResetService(
	userRepo *repository.UserRepository,
	resetRepo *repository.PasswordResetRepository,
	sessionRepo *repository.SessionRepository,
	mailer Mailer,
	cfg *config.Config,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:    userRepo,
		resetRepo:   resetRepo,
		sessionRepo: sessionRepo,
		mailer:      mailer,
		cfg:         cfg,
		now:         time.Now,
	}
}

// RequestReset generates a fresh token for the email, upserts the single
// outstanding reset row, and dispatches the reset email. The row is written
// before dispatch; a dispatch failure surfaces as ErrMailDispatch and is not
// retried.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	token, err := GenerateResetToken()
	if err != nil {
		return err
	}

	reset := &entity.PasswordReset{
		Email:     user.Email,
		Token:     token,
		CreatedAt: s.now(),
	}
	if err := s.resetRepo.Upsert(ctx, reset); err != nil {
		return err
	}

	actionLink := s.cfg.BaseURL + "/reset-password/" + token
	if err := s.mailer.SendPasswordReset(ctx, user, actionLink); err != nil {
		return fmt.Errorf("%w: %v", ErrMailDispatch, err)
	}

	return nil
}

// ValidateToken looks up a reset token and checks its validity window.
// Elapsed time equal to the window is still accepted. Expired rows are left
// in place.
func (s *PasswordResetService) ValidateToken(ctx context.Context, token string) (*entity.PasswordReset, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	reset, err := s.resetRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if reset == nil {
		return nil, ErrInvalidToken
	}

	if s.now().Sub(reset.CreatedAt) > s.cfg.ResetTokenTTL {
		return nil, ErrTokenExpired
	}

	return reset, nil
}

// ResetPassword consumes a valid token: stores the new password hash,
// deletes the token row, and invalidates every session of the user.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	reset, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	if err := s.cfg.Password.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	user, err := s.userRepo.FindByEmail(ctx, reset.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return err
	}

	if err := s.resetRepo.DeleteByEmail(ctx, reset.Email); err != nil {
		return err
	}

	return s.sessionRepo.DeleteByUserID(ctx, user.ID)
}
