// Package sessionservice manages business logic layer of sessions.
package sessionservice

import (
	"context"
	"time"

	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/pkg/configpkg"
	"github.com/go-vault/vault-bank/pkg/tokenpkg"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repo provides data access layer interface needed by session service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package sessionservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateSessionParams) (domain.Session, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Session, error)
}

// Service facilitates session service layer logic.
type Service struct {
	repo       Repo
	TokenMaker tokenpkg.Maker
	config     configpkg.Config
}

// New returns session service struct to manage session bussines logic.
func New(sr Repo, config configpkg.Config, tokenMaker tokenpkg.Maker) (*Service, error) {
	return &Service{
		repo:       sr,
		TokenMaker: tokenMaker,
		config:     config,
	}, nil
}

// Create issues access and refresh tokens and stores the refresh session.
func (s *Service) Create(ctx context.Context, arg domain.CreateSessionParams) (string, time.Time, domain.Session, error) {
	var sess domain.Session

	accessToken, accessPayload, err := s.TokenMaker.CreateToken(arg.Username, s.config.AccessTokenDuration)
	if err != nil {
		return "", time.Time{}, sess, err
	}

	refreshToken, refreshPayload, err := s.TokenMaker.CreateToken(arg.Username, s.config.RefreshTokenDuration)
	if err != nil {
		return "", accessPayload.ExpiredAt, sess, err
	}

	arg.ID = refreshPayload.ID
	arg.RefreshToken = refreshToken
	arg.ExpiresAt = refreshPayload.ExpiredAt

	sess, err = s.repo.Create(ctx, arg)
	if err != nil {
		return "", accessPayload.ExpiredAt, sess, err
	}

	return accessToken, accessPayload.ExpiredAt, sess, nil
}

// RenewAccessToken returns a fresh access token for a valid refresh session.
func (s *Service) RenewAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	l := zerolog.Ctx(ctx)

	refreshPayload, err := s.TokenMaker.VerifyToken(refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}

	sess, err := s.repo.Get(ctx, refreshPayload.ID)
	if err != nil {
		return "", time.Time{}, err
	}

	if sess.IsBlocked {
		l.Warn().Str("session_id", sess.ID.String()).Send()
		return "", time.Time{}, domain.ErrBlockedSession
	}

	if sess.Username != refreshPayload.Username {
		return "", time.Time{}, domain.ErrInvalidUser
	}

	if sess.RefreshToken != refreshToken {
		return "", time.Time{}, domain.ErrMismatchedRefreshToken
	}

	if time.Now().After(sess.ExpiresAt) {
		return "", time.Time{}, domain.ErrExpiredSession
	}

	accessToken, accessPayload, err := s.TokenMaker.CreateToken(refreshPayload.Username, s.config.AccessTokenDuration)
	if err != nil {
		return "", time.Time{}, err
	}

	return accessToken, accessPayload.ExpiredAt, nil
}
