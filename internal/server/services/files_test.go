package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/vtumanov/filevault/internal/common"
	"github.com/vtumanov/filevault/internal/logging"
	"github.com/vtumanov/filevault/internal/server/models"
)

var owner = &models.User{ID: "u1", Email: "a@x.com"}
var stranger = &models.User{ID: "u2", Email: "b@x.com"}

func newFileService(t *testing.T) (*FileService, *fakeFilesRepo, *fakeBlobStore, *fakeQueue) {
	t.Helper()
	repo := newFakeFilesRepo()
	blobs := newFakeBlobStore()
	q := &fakeQueue{}
	return NewFileService(repo, blobs, q, logging.NewNopLogger()), repo, blobs, q
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestCreate_ValidationOrder(t *testing.T) {
	svc, repo, blobs, _ := newFileService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateFileInput
		want error
	}{
		{"missing name first", CreateFileInput{Type: "bogus"}, common.ErrMissingName},
		{"unknown type", CreateFileInput{Name: "f", Type: "bogus"}, common.ErrMissingType},
		{"empty type", CreateFileInput{Name: "f"}, common.ErrMissingType},
		{"file without data", CreateFileInput{Name: "f", Type: models.TypeFile}, common.ErrMissingData},
		{"image without data", CreateFileInput{Name: "f", Type: models.TypeImage}, common.ErrMissingData},
		{"unknown parent", CreateFileInput{Name: "f", Type: models.TypeFolder, ParentID: "nope"}, common.ErrParentNotFound},
		{"bad payload encoding", CreateFileInput{Name: "f", Type: models.TypeFile, Data: "%%%"}, common.ErrInvalidData},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, owner, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	// Nothing was persisted along the way.
	if len(repo.byID) != 0 || len(blobs.data) != 0 {
		t.Fatalf("validation failures must not persist anything: %d entries, %d blobs", len(repo.byID), len(blobs.data))
	}
}

func TestCreate_ParentChecks(t *testing.T) {
	svc, repo, _, _ := newFileService(t)
	ctx := context.Background()

	repo.add(&models.File{ID: "folder1", UserID: owner.ID, Type: models.TypeFolder})
	repo.add(&models.File{ID: "file1", UserID: owner.ID, Type: models.TypeFile, LocalPath: "/p/1"})
	repo.add(&models.File{ID: "theirs", UserID: stranger.ID, Type: models.TypeFolder})

	// Parent owned by someone else is invisible.
	_, err := svc.Create(ctx, owner, CreateFileInput{Name: "d", Type: models.TypeFolder, ParentID: "theirs"})
	if !errors.Is(err, common.ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}

	// Parent that is not a folder.
	_, err = svc.Create(ctx, owner, CreateFileInput{Name: "d", Type: models.TypeFolder, ParentID: "file1"})
	if !errors.Is(err, common.ErrParentNotFolder) {
		t.Fatalf("expected ErrParentNotFolder, got %v", err)
	}

	// Valid parent.
	created, err := svc.Create(ctx, owner, CreateFileInput{Name: "d", Type: models.TypeFolder, ParentID: "folder1"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created.ParentID != "folder1" {
		t.Fatalf("expected parent folder1, got %q", created.ParentID)
	}
}

func TestCreate_Folder(t *testing.T) {
	svc, _, blobs, q := newFileService(t)

	created, err := svc.Create(context.Background(), owner, CreateFileInput{Name: "docs", Type: models.TypeFolder})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if created.ID == "" || created.ParentID != models.RootParentID || created.LocalPath != "" {
		t.Fatalf("unexpected folder: %+v", created)
	}
	if created.IsPublic {
		t.Fatal("visibility must default to private")
	}
	if len(blobs.data) != 0 || len(q.jobs) != 0 {
		t.Fatal("folders must not touch the blob store or the queue")
	}
}

func TestCreate_FileWritesBlob(t *testing.T) {
	svc, _, blobs, q := newFileService(t)

	created, err := svc.Create(context.Background(), owner, CreateFileInput{Name: "f.txt", Type: models.TypeFile, Data: b64("hi")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if created.LocalPath == "" {
		t.Fatal("expected a blob path on the entry")
	}
	if string(blobs.data[created.LocalPath]) != "hi" {
		t.Fatalf("blob content mismatch: %q", blobs.data[created.LocalPath])
	}
	if len(q.jobs) != 0 {
		t.Fatal("plain files must not enqueue thumbnail jobs")
	}
}

func TestCreate_ImageEnqueuesThumbnailJob(t *testing.T) {
	svc, _, _, q := newFileService(t)

	created, err := svc.Create(context.Background(), owner, CreateFileInput{Name: "p.png", Type: models.TypeImage, Data: b64("png-bytes")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if len(q.jobs) != 1 || q.jobs[0].queue != models.FileQueue {
		t.Fatalf("expected one thumbnail job, got %+v", q.jobs)
	}
	job, ok := q.jobs[0].payload.(models.ThumbnailJob)
	if !ok || job.FileID != created.ID || job.UserID != owner.ID {
		t.Fatalf("unexpected job payload: %+v", q.jobs[0].payload)
	}
}

func TestCreate_SurvivesQueueFailure(t *testing.T) {
	svc, _, _, q := newFileService(t)
	q.enqueueErr = errors.New("queue down")

	if _, err := svc.Create(context.Background(), owner, CreateFileInput{Name: "p.png", Type: models.TypeImage, Data: b64("x")}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestGet_ScopedToOwner(t *testing.T) {
	svc, repo, _, _ := newFileService(t)
	repo.add(&models.File{ID: "f1", UserID: owner.ID, Name: "f", Type: models.TypeFile, LocalPath: "/p/1"})

	if _, err := svc.Get(context.Background(), owner, "f1"); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if _, err := svc.Get(context.Background(), stranger, "f1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound for non-owner, got %v", err)
	}
}

func TestList_PaginationWindow(t *testing.T) {
	svc, repo, _, _ := newFileService(t)
	ctx := context.Background()

	if _, err := svc.List(ctx, owner, "", 2); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if repo.lastList != (listCall{userID: owner.ID, parentID: "", offset: 40, limit: 20}) {
		t.Fatalf("unexpected window: %+v", repo.lastList)
	}

	// Root entries are a distinct filter from "no filter".
	if _, err := svc.List(ctx, owner, "0", 0); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if repo.lastList.parentID != "0" {
		t.Fatalf("expected parent filter 0, got %q", repo.lastList.parentID)
	}

	// Negative pages clamp to the first window.
	if _, err := svc.List(ctx, owner, "", -3); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if repo.lastList.offset != 0 {
		t.Fatalf("expected offset 0, got %d", repo.lastList.offset)
	}
}

func TestSetVisibility(t *testing.T) {
	svc, repo, _, _ := newFileService(t)
	repo.add(&models.File{ID: "f1", UserID: owner.ID, Type: models.TypeFile, LocalPath: "/p/1"})

	updated, err := svc.SetVisibility(context.Background(), owner, "f1", true)
	if err != nil {
		t.Fatalf("SetVisibility error: %v", err)
	}
	if !updated.IsPublic {
		t.Fatal("expected entry to be public")
	}

	if _, err := svc.SetVisibility(context.Background(), stranger, "f1", false); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound for non-owner, got %v", err)
	}
}

func TestReadContent_RoundTrip(t *testing.T) {
	svc, _, _, _ := newFileService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, CreateFileInput{Name: "f.txt", Type: models.TypeFile, Data: b64("hi")})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	data, contentType, err := svc.ReadContent(ctx, owner, created.ID, "")
	if err != nil {
		t.Fatalf("ReadContent error: %v", err)
	}
	if string(data) != "hi" {
		t.Fatalf("round trip mismatch: %q", data)
	}
	if contentType != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type: %q", contentType)
	}
}

func TestReadContent_Visibility(t *testing.T) {
	svc, repo, blobs, _ := newFileService(t)
	ctx := context.Background()

	entry := repo.add(&models.File{ID: "f1", UserID: owner.ID, Name: "f.bin", Type: models.TypeFile, LocalPath: "/p/1"})
	blobs.data["/p/1"] = []byte("secret")

	// Private: only the owner can read, everyone else sees NotFound.
	if _, _, err := svc.ReadContent(ctx, nil, "f1", ""); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("anonymous: expected ErrorNotFound, got %v", err)
	}
	if _, _, err := svc.ReadContent(ctx, stranger, "f1", ""); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("stranger: expected ErrorNotFound, got %v", err)
	}
	if _, _, err := svc.ReadContent(ctx, owner, "f1", ""); err != nil {
		t.Fatalf("owner: unexpected error %v", err)
	}

	// Publishing makes the same calls succeed immediately.
	entry.IsPublic = true
	if _, _, err := svc.ReadContent(ctx, nil, "f1", ""); err != nil {
		t.Fatalf("anonymous after publish: unexpected error %v", err)
	}
	if _, _, err := svc.ReadContent(ctx, stranger, "f1", ""); err != nil {
		t.Fatalf("stranger after publish: unexpected error %v", err)
	}
}

func TestReadContent_Folder(t *testing.T) {
	svc, repo, _, _ := newFileService(t)
	repo.add(&models.File{ID: "d1", UserID: owner.ID, Name: "docs", Type: models.TypeFolder})

	_, _, err := svc.ReadContent(context.Background(), owner, "d1", "")
	if !errors.Is(err, common.ErrFolderNoContent) {
		t.Fatalf("expected ErrFolderNoContent, got %v", err)
	}
}

func TestReadContent_ThumbnailSize(t *testing.T) {
	svc, repo, blobs, _ := newFileService(t)
	ctx := context.Background()

	repo.add(&models.File{ID: "f1", UserID: owner.ID, Name: "p.png", Type: models.TypeImage, LocalPath: "/p/1"})
	blobs.data["/p/1"] = []byte("original")
	blobs.data["/p/1_100"] = []byte("tiny")

	data, _, err := svc.ReadContent(ctx, owner, "f1", "100")
	if err != nil {
		t.Fatalf("ReadContent error: %v", err)
	}
	if string(data) != "tiny" {
		t.Fatalf("expected derivative bytes, got %q", data)
	}

	// A derivative that was never generated is simply absent.
	if _, _, err := svc.ReadContent(ctx, owner, "f1", "250"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound for missing derivative, got %v", err)
	}
}

func TestReadContent_MissingEntry(t *testing.T) {
	svc, _, _, _ := newFileService(t)

	_, _, err := svc.ReadContent(context.Background(), owner, "ghost", "")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
