package services

import (
	"context"
	"errors"

	"github.com/vtumanov/filevault/internal/common"
	"github.com/vtumanov/filevault/internal/logging"
	"github.com/vtumanov/filevault/internal/server/models"
	"github.com/vtumanov/filevault/internal/server/queue"
	"github.com/vtumanov/filevault/internal/server/repositories/users"
)

// UserService handles registration.
type UserService struct {
	users  users.Repository
	queue  queue.Queue
	logger logging.Logger
}

// NewUserService constructs a UserService.
func NewUserService(users users.Repository, q queue.Queue, logger logging.Logger) *UserService {
	return &UserService{users: users, queue: q, logger: logger}
}

// Register creates a user and enqueues a welcome job. Duplicate emails fail
// with common.ErrorAlreadyExists: the fast-path lookup catches most of them,
// and the unique constraint on email closes the race against a concurrent
// registration of the same address.
func (s *UserService) Register(ctx context.Context, email, secret string) (*models.User, error) {
	if email == "" {
		return nil, common.ErrMissingEmail
	}
	if secret == "" {
		return nil, common.ErrMissingPassword
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	user := &models.User{Email: email, SecretHash: hashSecret(secret)}
	user, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	// Fire-and-forget: a queue hiccup must not fail a completed registration.
	job := models.WelcomeJob{UserID: user.ID}
	if err := s.queue.Enqueue(ctx, models.UserQueue, job); err != nil {
		s.logger.Warn(ctx, "welcome job enqueue failed", "userId", user.ID, "error", err.Error())
	}

	return user, nil
}
