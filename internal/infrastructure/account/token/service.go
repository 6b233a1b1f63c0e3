package token

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
)

type claims struct {
	LeagueID string `json:"league_id"`
	TeamName string `json:"team_name"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Service issues and verifies the signed access tokens returned by league
// login. Tokens are self-contained; no session state is stored server side.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret string, ttl time.Duration) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth secret is required")
	}
	if ttl <= 0 {
		return nil, errors.Newf("token ttl must be positive, got %s", ttl)
	}

	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *Service) Issue(principal user.Principal) (string, time.Time, error) {
	if !principal.Valid() {
		return "", time.Time{}, errors.New("principal is incomplete")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		LeagueID: principal.LeagueID,
		TeamName: principal.TeamName,
		IsAdmin:  principal.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.TeamName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

func (s *Service) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}

	decoded, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return user.Principal{}, fmt.Errorf("%w: malformed claims", usecase.ErrUnauthorized)
	}

	principal := user.Principal{
		LeagueID: decoded.LeagueID,
		TeamName: decoded.TeamName,
		IsAdmin:  decoded.IsAdmin,
	}
	if !principal.Valid() {
		return user.Principal{}, fmt.Errorf("%w: incomplete claims", usecase.ErrUnauthorized)
	}

	return principal, nil
}
