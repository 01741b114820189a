package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vibast-solutions/ms-go-adminpanel/app/entity"
	"github.com/vibast-solutions/ms-go-adminpanel/app/repository"
	"github.com/vibast-solutions/ms-go-adminpanel/config"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("wrong password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrWeakPassword       = errors.New("password does not meet policy requirements")
	ErrMailDispatch       = errors.New("failed to dispatch email")
	ErrNoSession          = errors.New("no active session")
)

// IsEmailAddress reports whether a login identifier should be treated as an
// email address rather than a username.
func IsEmailAddress(identifier string) bool {
	addr, err := mail.ParseAddress(identifier)
	if err != nil {
		return false
	}
	// mail.ParseAddress accepts display names and local-only addresses a
	// login form should not.
	return addr.Address == identifier && strings.Contains(identifier, "@")
}

type sessionClaims struct {
	SessionToken string `json:"session_token"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
	cfg         *config.Config
	now         func() time.Time
}

func NewAuthService(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// LookupByLoginID resolves a login identifier against the email column when
// it parses as an email address, otherwise against the username column.
// Returns ErrUserNotFound when no row matches.
func (s *AuthService) LookupByLoginID(ctx context.Context, loginID string) (*entity.User, error) {
	var (
		user *entity.User
		err  error
	)
	if IsEmailAddress(loginID) {
		user, err = s.userRepo.FindByEmail(ctx, loginID)
	} else {
		user, err = s.userRepo.FindByUsername(ctx, loginID)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Login verifies the password for a login identifier and, on success,
// establishes exactly one session. The returned cookie value is the signed
// session reference for the browser.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (*entity.User, string, error) {
	user, err := s.LookupByLoginID(ctx, loginID)
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	cookieValue, err := s.EstablishSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, cookieValue, nil
}

// EstablishSession creates a session row for the user and returns the signed
// cookie value referencing it.
func (s *AuthService) EstablishSession(ctx context.Context, user *entity.User) (string, error) {
	now := s.now()
	session := &entity.Session{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", err
	}

	return s.signSessionCookie(session)
}

// ResolveSession maps a session cookie value back to its user. Tampered or
// stale cookies are rejected before any database lookup.
func (s *AuthService) ResolveSession(ctx context.Context, cookieValue string) (*entity.User, *entity.Session, error) {
	token, err := s.parseSessionCookie(cookieValue)
	if err != nil {
		return nil, nil, ErrNoSession
	}

	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrNoSession
	}
	if session.ExpiresAt.Before(s.now()) {
		_ = s.sessionRepo.DeleteByToken(ctx, token)
		return nil, nil, ErrNoSession
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrNoSession
	}

	return user, session, nil
}

// DestroySession removes the session referenced by the cookie value.
// Safe to call with no active session.
func (s *AuthService) DestroySession(ctx context.Context, cookieValue string) error {
	if cookieValue == "" {
		return nil
	}
	token, err := s.parseSessionCookie(cookieValue)
	if err != nil {
		return nil
	}
	return s.sessionRepo.DeleteByToken(ctx, token)
}

func (s *AuthService) signSessionCookie(session *entity.Session) (string, error) {
	claims := &sessionClaims{
		SessionToken: session.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SessionSecret))
}

func (s *AuthService) parseSessionCookie(cookieValue string) (string, error) {
	token, err := jwt.ParseWithClaims(cookieValue, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	if err != nil {
		return "", ErrNoSession
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.SessionToken == "" {
		return "", ErrNoSession
	}

	return claims.SessionToken, nil
}
