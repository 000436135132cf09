package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/vtumanov/filevault/internal/common"
	"github.com/vtumanov/filevault/internal/logging"
	"github.com/vtumanov/filevault/internal/server/blob"
	"github.com/vtumanov/filevault/internal/server/models"
	"github.com/vtumanov/filevault/internal/server/queue"
	"github.com/vtumanov/filevault/internal/server/repositories/files"
)

// PageSize is the fixed pagination window for listings.
const PageSize = 20

// CreateFileInput carries the validated parameters of an upload request.
// Data is the base64-encoded content; it is ignored for folders.
type CreateFileInput struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     string
}

// FileService implements the file registry operations.
type FileService struct {
	files  files.Repository
	blobs  blob.Store
	queue  queue.Queue
	logger logging.Logger
}

// NewFileService constructs a FileService.
func NewFileService(files files.Repository, blobs blob.Store, q queue.Queue, logger logging.Logger) *FileService {
	return &FileService{files: files, blobs: blobs, queue: q, logger: logger}
}

// Create validates and persists a new entry for owner. Validation order is
// part of the API contract: name, then type, then data, then parent checks.
// For non-folders the decoded payload is written to the blob store before the
// metadata insert; for images a thumbnail job is enqueued after the insert
// and never awaited.
func (s *FileService) Create(ctx context.Context, owner *models.User, in CreateFileInput) (*models.File, error) {
	if in.Name == "" {
		return nil, common.ErrMissingName
	}
	if in.Type != models.TypeFolder && in.Type != models.TypeFile && in.Type != models.TypeImage {
		return nil, common.ErrMissingType
	}
	if in.Data == "" && in.Type != models.TypeFolder {
		return nil, common.ErrMissingData
	}

	parentID := in.ParentID
	if parentID == "" {
		parentID = models.RootParentID
	}
	if parentID != models.RootParentID {
		parent, err := s.files.GetByIDAndOwner(ctx, parentID, owner.ID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrParentNotFound
			}
			return nil, err
		}
		if !parent.IsFolder() {
			return nil, common.ErrParentNotFolder
		}
	}

	file := &models.File{
		UserID:   owner.ID,
		Name:     in.Name,
		Type:     in.Type,
		ParentID: parentID,
		IsPublic: in.IsPublic,
	}

	if in.Type == models.TypeFolder {
		return s.files.Create(ctx, file)
	}

	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return nil, common.ErrInvalidData
	}

	path := s.blobs.NewPath()
	if err := s.blobs.Write(ctx, path, data); err != nil {
		return nil, err
	}
	file.LocalPath = path

	file, err = s.files.Create(ctx, file)
	if err != nil {
		// The blob stays behind; surface it so an operator can clean up.
		s.logger.Warn(ctx, "orphaned blob after failed insert", "path", path)
		return nil, err
	}

	if in.Type == models.TypeImage {
		job := models.ThumbnailJob{FileID: file.ID, UserID: owner.ID}
		if err := s.queue.Enqueue(ctx, models.FileQueue, job); err != nil {
			s.logger.Warn(ctx, "thumbnail job enqueue failed", "fileId", file.ID, "error", err.Error())
		}
	}

	return file, nil
}

// Get returns the owner's entry by id.
func (s *FileService) Get(ctx context.Context, owner *models.User, id string) (*models.File, error) {
	return s.files.GetByIDAndOwner(ctx, id, owner.ID)
}

// List returns one pagination window of the owner's entries. An empty
// parentID lists every entry the owner has, at any depth; parentID "0" lists
// only top-level entries. Negative pages are treated as page 0.
func (s *FileService) List(ctx context.Context, owner *models.User, parentID string, page int) ([]*models.File, error) {
	if page < 0 {
		page = 0
	}
	return s.files.List(ctx, owner.ID, parentID, page*PageSize, PageSize)
}

// SetVisibility flips the isPublic flag on the owner's entry.
func (s *FileService) SetVisibility(ctx context.Context, owner *models.User, id string, isPublic bool) (*models.File, error) {
	return s.files.UpdateVisibility(ctx, id, owner.ID, isPublic)
}

// ReadContent serves an entry's bytes plus its content type. The entry is
// looked up without an ownership filter; unless it is public, only its owner
// may read it, and everyone else gets ErrorNotFound so existence is never
// disclosed. A non-empty size selects the <path>_<size> derivative instead
// of the original.
func (s *FileService) ReadContent(ctx context.Context, requester *models.User, id, size string) ([]byte, string, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if !file.IsPublic && (requester == nil || requester.ID != file.UserID) {
		return nil, "", common.ErrorNotFound
	}

	if file.IsFolder() {
		return nil, "", common.ErrFolderNoContent
	}

	path := file.LocalPath
	if size != "" {
		path = fmt.Sprintf("%s_%s", path, size)
	}

	data, err := s.blobs.Read(ctx, path)
	if err != nil {
		return nil, "", err
	}

	return data, contentTypeFor(file.Name), nil
}
