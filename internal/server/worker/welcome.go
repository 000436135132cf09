package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vtumanov/filevault/internal/logging"
	"github.com/vtumanov/filevault/internal/server/models"
	"github.com/vtumanov/filevault/internal/server/repositories/users"
)

// Welcomer consumes welcome jobs and emits an acknowledgment for each new
// user.
type Welcomer struct {
	users  users.Repository
	logger logging.Logger
}

// NewWelcomer constructs a Welcomer.
func NewWelcomer(users users.Repository, logger logging.Logger) *Welcomer {
	return &Welcomer{users: users, logger: logger}
}

// Handle processes one welcome job.
func (w *Welcomer) Handle(ctx context.Context, payload []byte) error {
	var job models.WelcomeJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("bad welcome job payload: %w", err)
	}
	if job.UserID == "" {
		return errors.New("missing userId")
	}

	user, err := w.users.GetByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	w.logger.Info(ctx, fmt.Sprintf("Welcome %s!", user.Email), "userId", user.ID)
	return nil
}
