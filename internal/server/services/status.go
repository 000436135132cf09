package services

import (
	"context"
	"database/sql"

	"github.com/vtumanov/filevault/internal/server/repositories/files"
	"github.com/vtumanov/filevault/internal/server/repositories/users"
	"github.com/vtumanov/filevault/internal/server/sessions"
)

// Health reports reachability of the two backing stores.
type Health struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// Stats reports entity counts.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// StatusService backs the operational status and stats endpoints.
type StatusService struct {
	db    *sql.DB
	cache sessions.Store
	users users.Repository
	files files.Repository
}

// NewStatusService constructs a StatusService.
func NewStatusService(db *sql.DB, cache sessions.Store, users users.Repository, files files.Repository) *StatusService {
	return &StatusService{db: db, cache: cache, users: users, files: files}
}

// Status pings both stores. It never fails; unreachable stores show as false.
func (s *StatusService) Status(ctx context.Context) Health {
	return Health{
		Redis: s.cache.Ping(ctx) == nil,
		DB:    s.db.PingContext(ctx) == nil,
	}
}

// Stats counts users and files.
func (s *StatusService) Stats(ctx context.Context) (Stats, error) {
	nUsers, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	nFiles, err := s.files.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Users: nUsers, Files: nFiles}, nil
}
