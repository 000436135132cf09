// Package worker implements the background job consumers: thumbnail
// derivation for uploaded images and welcome acknowledgments for new users.
// Handler errors go to the queue's failure channel, never to an API caller.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vtumanov/filevault/internal/imgx"
	"github.com/vtumanov/filevault/internal/logging"
	"github.com/vtumanov/filevault/internal/server/blob"
	"github.com/vtumanov/filevault/internal/server/models"
	"github.com/vtumanov/filevault/internal/server/repositories/files"
)

// ThumbnailWidths are the derivative sizes generated for every image.
var ThumbnailWidths = []int{500, 250, 100}

// Thumbnailer consumes thumbnail jobs. Derivatives are written to
// <originalPath>_<width>; re-running a job overwrites the same paths, so
// redelivered jobs are harmless.
type Thumbnailer struct {
	files  files.Repository
	blobs  blob.Store
	logger logging.Logger
}

// NewThumbnailer constructs a Thumbnailer.
func NewThumbnailer(files files.Repository, blobs blob.Store, logger logging.Logger) *Thumbnailer {
	return &Thumbnailer{files: files, blobs: blobs, logger: logger}
}

// Handle processes one thumbnail job. The three derivative writes are
// independent: a failed width is reported but does not undo the others.
func (w *Thumbnailer) Handle(ctx context.Context, payload []byte) error {
	var job models.ThumbnailJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("bad thumbnail job payload: %w", err)
	}
	if job.FileID == "" {
		return errors.New("missing fileId")
	}
	if job.UserID == "" {
		return errors.New("missing userId")
	}

	file, err := w.files.GetByIDAndOwner(ctx, job.FileID, job.UserID)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}

	original, err := w.blobs.Read(ctx, file.LocalPath)
	if err != nil {
		return fmt.Errorf("read original: %w", err)
	}

	var errs []error
	for _, width := range ThumbnailWidths {
		thumb, err := imgx.Resize(original, width)
		if err != nil {
			return fmt.Errorf("resize to %d: %w", width, err)
		}

		path := fmt.Sprintf("%s_%d", file.LocalPath, width)
		if err := w.blobs.Write(ctx, path, thumb); err != nil {
			w.logger.Error(ctx, "thumbnail write failed", "path", path, "error", err.Error())
			errs = append(errs, fmt.Errorf("write %s: %w", path, err))
			continue
		}
	}

	return errors.Join(errs...)
}
