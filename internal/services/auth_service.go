package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OwnerSubject is the subject of every issued token: there is one owner.
const OwnerSubject = "owner"

type AuthParams struct {
	PasswordHash      string
	JWTIssuer         string
	JWTSigningKey     []byte
	JWTAccessTokenTTL time.Duration
}

type authServiceImpl struct {
	logger            zerolog.Logger
	passwordHash      string
	jwtIssuer         string
	jwtSigningKey     []byte
	jwtAccessTokenTTL time.Duration
	now               func() time.Time
}

func NewAuthService(
	logger zerolog.Logger,
	params AuthParams,
) AuthService {
	return &authServiceImpl{
		logger:            logger,
		passwordHash:      params.PasswordHash,
		jwtIssuer:         params.JWTIssuer,
		jwtSigningKey:     params.JWTSigningKey,
		jwtAccessTokenTTL: params.JWTAccessTokenTTL,
		now:               time.Now,
	}
}

func (s *authServiceImpl) Enabled() bool {
	return s.passwordHash != ""
}

func (s *authServiceImpl) Login(_ context.Context, password string) (*LoginResult, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}

	match, err := argon2id.ComparePasswordAndHash(password, s.passwordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Warn().Msg("passwords do not match")
		return nil, ErrPasswordMismatch
	}

	token, expiresAt, err := s.generateAccessToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}
	s.logger.Debug().
		Time("expires_at", expiresAt).
		Msg("generated access token")

	s.logger.Info().Msg("logged in")
	return &LoginResult{
		AccessToken:          token,
		AccessTokenExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) ParseJWTToken(token string) (*jwt.RegisteredClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithSubject(OwnerSubject),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token is expired: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, errors.New("failed to parse token claims")
	}
	return claims, nil
}

func (s *authServiceImpl) generateAccessToken() (string, time.Time, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.jwtAccessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.jwtIssuer,
		Subject:   OwnerSubject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}
