package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service verifies submitted credentials and issues signed token pairs.
type Service struct {
	users  UserStore
	signer *Signer

	now          func() time.Time
	newSessionID func() string
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithSessionIDFunc overrides session id generation (useful for tests).
func WithSessionIDFunc(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newSessionID = fn
		}
	}
}

// NewService constructs the auth service.
func NewService(users UserStore, signer *Signer, opts ...ServiceOption) (*Service, error) {
	if users == nil {
		return nil, errors.New("auth: user store is required")
	}
	if signer == nil {
		return nil, errors.New("auth: signer is required")
	}
	s := &Service{
		users:        users,
		signer:       signer,
		now:          time.Now,
		newSessionID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TokenPair carries both tokens of one login along with their expirations.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// Login verifies the credential and mints an access/refresh token pair.
//
// An unknown email and a wrong password both fail with the identical
// ErrUnauthorized. A non-active account fails with ErrAccountDisabled
// carrying the concrete status, but only after the credential matched.
// The only write is the last-login stamp on success.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, UserView, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return TokenPair{}, UserView{}, ErrUnauthorized
	}

	user, err := s.lookupByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, UserView{}, ErrUnauthorized
		}
		return TokenPair{}, UserView{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return TokenPair{}, UserView{}, ErrUnauthorized
	}
	if user.Status != StatusActive {
		return TokenPair{}, UserView{}, fmt.Errorf("%w: account status is %q", ErrAccountDisabled, user.Status)
	}

	pair, err := s.mintPair(user)
	if err != nil {
		return TokenPair{}, UserView{}, err
	}

	loginAt := s.now().UTC()
	if err := s.users.RecordLogin(ctx, user.ID, loginAt); err != nil {
		return TokenPair{}, UserView{}, err
	}
	user.LastLoginAt = loginAt

	return pair, viewOf(user), nil
}

// Refresh verifies a refresh token and mints a fresh pair under a new
// session id. Tokens are stateless; there is no stored session to rotate.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, UserView, error) {
	payload, err := s.signer.Verify(refreshToken, TokenKindRefresh)
	if err != nil {
		return TokenPair{}, UserView{}, ErrInvalidToken
	}
	user, err := s.users.Find(ctx, payload.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, UserView{}, ErrInvalidToken
		}
		return TokenPair{}, UserView{}, err
	}
	if user.Status != StatusActive {
		return TokenPair{}, UserView{}, fmt.Errorf("%w: account status is %q", ErrAccountDisabled, user.Status)
	}
	pair, err := s.mintPair(user)
	if err != nil {
		return TokenPair{}, UserView{}, err
	}
	return pair, viewOf(user), nil
}

// Authenticate validates an access token and returns its payload.
func (s *Service) Authenticate(token string) (TokenPayload, error) {
	return s.signer.Verify(token, TokenKindAccess)
}

// Me returns the view of the user identified by an authenticated subject.
func (s *Service) Me(ctx context.Context, userID string) (UserView, error) {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	return viewOf(user), nil
}

// lookupByEmail tries an exact match first and falls back to an anchored
// case-insensitive match, so logins differing only in casing still succeed
// without a case-folded index.
func (s *Service) lookupByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.users.FindByEmailFold(ctx, email)
}

func (s *Service) mintPair(user *User) (TokenPair, error) {
	payload := TokenPayload{
		Subject:        user.ID,
		Email:          user.Email,
		OrganisationID: user.OrganisationID,
		RoleID:         user.RoleID,
		DesignationID:  user.DesignationID,
		SessionID:      s.newSessionID(),
	}
	access, accessExp, err := s.signer.Sign(payload, TokenKindAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.signer.Sign(payload, TokenKindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}
