// Package services contains server-side business logic. This file implements
// AuthService: the access-control gate plus login and logout.
package services

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vtumanov/filevault/internal/common"
	"github.com/vtumanov/filevault/internal/server/models"
	"github.com/vtumanov/filevault/internal/server/repositories/users"
	"github.com/vtumanov/filevault/internal/server/sessions"
)

// AuthService verifies credentials, mints session tokens, and resolves
// tokens back to users for every authenticated operation.
type AuthService struct {
	users      users.Repository
	sessions   sessions.Store
	sessionTTL time.Duration
}

// NewAuthService constructs an AuthService.
func NewAuthService(users users.Repository, sessions sessions.Store, sessionTTL time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, sessionTTL: sessionTTL}
}

// Authenticate is the gate in front of every protected operation: it resolves
// the token through the session cache and loads the user. An absent cache key
// (expired, deleted, or never issued) and a dangling user id both come back
// as common.ErrorUnauthorized. No side effects on success.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	return user, nil
}

// Login verifies a Basic credential payload (base64 of "email:secret") and
// mints a fresh session token with the configured TTL. Tokens are random
// UUIDs; nothing about them is derivable from the user.
func (s *AuthService) Login(ctx context.Context, encoded string) (string, error) {
	email, secret, err := decodeBasic(encoded)
	if err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", err
	}

	candidate := hashSecret(secret)
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(user.SecretHash)) != 1 {
		return "", common.ErrorUnauthorized
	}

	token := uuid.NewString()
	if err := s.sessions.Set(ctx, token, user.ID, s.sessionTTL); err != nil {
		return "", err
	}

	return token, nil
}

// Logout resolves the token through the gate and then deletes the session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.Authenticate(ctx, token); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, token)
}

// decodeBasic splits a base64 "email:secret" pair. Malformed encodings are a
// validation failure, not an authentication one.
func decodeBasic(encoded string) (string, string, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", common.ErrBadCredentials
	}

	parts := strings.Split(string(decoded), ":")
	if len(parts) != 2 {
		return "", "", common.ErrBadCredentials
	}

	return parts[0], parts[1], nil
}
