package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vtumanov/filevault/internal/common"
	"github.com/vtumanov/filevault/internal/server/models"
	"github.com/vtumanov/filevault/internal/server/queue"
)

// --- shared fakes ---

type fakeUsersRepo struct {
	byID      map[string]*models.User
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) add(u *models.User) *models.User {
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = fmt.Sprintf("u%d", len(f.byID)+1)
	return f.add(u), nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

type fakeSessionStore struct {
	data    map[string]string
	lastTTL time.Duration
	setErr  error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{data: map[string]string{}}
}

func (f *fakeSessionStore) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[token] = userID
	f.lastTTL = ttl
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, token string) (string, error) {
	if id, ok := f.data[token]; ok {
		return id, nil
	}
	return "", common.ErrorNotFound
}

func (f *fakeSessionStore) Delete(ctx context.Context, token string) error {
	delete(f.data, token)
	return nil
}

func (f *fakeSessionStore) Ping(ctx context.Context) error { return nil }

type enqueuedJob struct {
	queue   string
	payload any
}

type fakeQueue struct {
	jobs       []enqueuedJob
	enqueueErr error
}

func (f *fakeQueue) Enqueue(ctx context.Context, queueName string, payload any) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.jobs = append(f.jobs, enqueuedJob{queue: queueName, payload: payload})
	return nil
}

func (f *fakeQueue) Consume(ctx context.Context, queueName string, handler queue.Handler) error {
	panic("not used")
}

type fakeBlobStore struct {
	data     map[string][]byte
	seq      int
	writeErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{data: map[string][]byte{}}
}

func (f *fakeBlobStore) NewPath() string {
	f.seq++
	return fmt.Sprintf("/blobs/%d", f.seq)
}

func (f *fakeBlobStore) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := f.data[path]
	return ok, nil
}

func (f *fakeBlobStore) Write(ctx context.Context, path string, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.data[path] = data
	return nil
}

func (f *fakeBlobStore) Read(ctx context.Context, path string) ([]byte, error) {
	if data, ok := f.data[path]; ok {
		return data, nil
	}
	return nil, common.ErrorNotFound
}

type listCall struct {
	userID   string
	parentID string
	offset   int
	limit    int
}

type fakeFilesRepo struct {
	byID      map[string]*models.File
	seq       int
	createErr error
	listOut   []*models.File
	lastList  listCall
}

func newFakeFilesRepo() *fakeFilesRepo {
	return &fakeFilesRepo{byID: map[string]*models.File{}}
}

func (f *fakeFilesRepo) add(file *models.File) *models.File {
	f.byID[file.ID] = file
	return file
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	file.ID = fmt.Sprintf("f%d", f.seq)
	file.CreatedAt = time.Now()
	return f.add(file), nil
}

func (f *fakeFilesRepo) GetByID(ctx context.Context, id string) (*models.File, error) {
	if file, ok := f.byID[id]; ok {
		return file, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFilesRepo) GetByIDAndOwner(ctx context.Context, id, userID string) (*models.File, error) {
	if file, ok := f.byID[id]; ok && file.UserID == userID {
		return file, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFilesRepo) List(ctx context.Context, userID, parentID string, offset, limit int) ([]*models.File, error) {
	f.lastList = listCall{userID: userID, parentID: parentID, offset: offset, limit: limit}
	return f.listOut, nil
}

func (f *fakeFilesRepo) UpdateVisibility(ctx context.Context, id, userID string, isPublic bool) (*models.File, error) {
	file, ok := f.byID[id]
	if !ok || file.UserID != userID {
		return nil, common.ErrorNotFound
	}
	file.IsPublic = isPublic
	return file, nil
}

func (f *fakeFilesRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}
