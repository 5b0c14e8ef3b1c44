package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes the two bearer tokens minted per login. They share
// a session identifier but are signed with different secrets and lifetimes.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 14 * 24 * time.Hour
)

// TokenPayload is the claim set shared by both tokens of one login.
type TokenPayload struct {
	Subject        string
	Email          string
	OrganisationID string
	RoleID         string
	DesignationID  string
	SessionID      string
}

// Claims is the wire-level JWT claim set.
type Claims struct {
	Email          string `json:"email,omitempty"`
	OrganisationID string `json:"org_id,omitempty"`
	RoleID         string `json:"role_id,omitempty"`
	DesignationID  string `json:"designation_id,omitempty"`
	SessionID      string `json:"sid"`
	Kind           string `json:"kind"`
	jwt.RegisteredClaims
}

// SignerConfig carries the secrets and lifetimes for both token kinds.
type SignerConfig struct {
	Issuer        string
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Signer issues and verifies HS256-signed compact tokens.
type Signer struct {
	cfg SignerConfig
	now func() time.Time
}

// SignerOption configures Signer behavior.
type SignerOption func(*Signer)

// WithSignerClock overrides the time source (useful for tests).
func WithSignerClock(fn func() time.Time) SignerOption {
	return func(s *Signer) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewSigner validates the configuration and constructs a Signer.
func NewSigner(cfg SignerConfig, opts ...SignerOption) (*Signer, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("auth: both access and refresh secrets are required")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("auth: access and refresh secrets must differ")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "saasbase"
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	s := &Signer{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Signer) params(kind TokenKind) ([]byte, time.Duration, error) {
	switch kind {
	case TokenKindAccess:
		return s.cfg.AccessSecret, s.cfg.AccessTTL, nil
	case TokenKindRefresh:
		return s.cfg.RefreshSecret, s.cfg.RefreshTTL, nil
	default:
		return nil, 0, fmt.Errorf("auth: unknown token kind %q", kind)
	}
}

// Sign issues a compact HS256 token of the given kind from the payload.
func (s *Signer) Sign(p TokenPayload, kind TokenKind) (string, time.Time, error) {
	if strings.TrimSpace(p.Subject) == "" {
		return "", time.Time{}, errors.New("auth: token subject is required")
	}
	if strings.TrimSpace(p.SessionID) == "" {
		return "", time.Time{}, errors.New("auth: session id is required")
	}
	secret, ttl, err := s.params(kind)
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		Email:          p.Email,
		OrganisationID: p.OrganisationID,
		RoleID:         p.RoleID,
		DesignationID:  p.DesignationID,
		SessionID:      p.SessionID,
		Kind:           string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, expiry, issuer and kind, and returns the payload.
func (s *Signer) Verify(token string, kind TokenKind) (TokenPayload, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TokenPayload{}, ErrInvalidToken
	}
	secret, _, err := s.params(kind)
	if err != nil {
		return TokenPayload{}, err
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return TokenPayload{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return TokenPayload{}, ErrInvalidToken
	}
	if claims.Kind != string(kind) {
		return TokenPayload{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.SessionID) == "" {
		return TokenPayload{}, ErrInvalidToken
	}
	return TokenPayload{
		Subject:        claims.Subject,
		Email:          claims.Email,
		OrganisationID: claims.OrganisationID,
		RoleID:         claims.RoleID,
		DesignationID:  claims.DesignationID,
		SessionID:      claims.SessionID,
	}, nil
}
