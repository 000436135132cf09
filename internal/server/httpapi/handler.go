// Package httpapi binds the core services to HTTP. It is a thin dispatcher:
// it extracts and coerces request parameters, calls the service layer, and
// translates results and sentinel errors into status codes and JSON bodies.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vtumanov/filevault/internal/logging"
	"github.com/vtumanov/filevault/internal/server/models"
	"github.com/vtumanov/filevault/internal/server/services"
)

// tokenHeader carries the session token on authenticated requests.
const tokenHeader = "X-Token"

// AuthService is the slice of the auth service the handlers need.
type AuthService interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Login(ctx context.Context, encoded string) (string, error)
	Logout(ctx context.Context, token string) error
}

// UserService is the slice of the user service the handlers need.
type UserService interface {
	Register(ctx context.Context, email, secret string) (*models.User, error)
}

// FileService is the slice of the file service the handlers need.
type FileService interface {
	Create(ctx context.Context, owner *models.User, in services.CreateFileInput) (*models.File, error)
	Get(ctx context.Context, owner *models.User, id string) (*models.File, error)
	List(ctx context.Context, owner *models.User, parentID string, page int) ([]*models.File, error)
	SetVisibility(ctx context.Context, owner *models.User, id string, isPublic bool) (*models.File, error)
	ReadContent(ctx context.Context, requester *models.User, id, size string) ([]byte, string, error)
}

// StatusService is the slice of the status service the handlers need.
type StatusService interface {
	Status(ctx context.Context) services.Health
	Stats(ctx context.Context) (services.Stats, error)
}

// Handler holds the service dependencies of every route.
type Handler struct {
	auth   AuthService
	users  UserService
	files  FileService
	status StatusService
	logger logging.Logger
}

// NewHandler constructs a Handler.
func NewHandler(auth AuthService, users UserService, files FileService, status StatusService, logger logging.Logger) *Handler {
	return &Handler{auth: auth, users: users, files: files, status: status, logger: logger}
}

// userView is the public shape of a user.
type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// fileView is the public shape of a file entry. The blob path never appears.
type fileView struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

func toFileView(f *models.File) fileView {
	return fileView{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: f.ParentID,
	}
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"Invalid JSON"})
		return
	}

	user, err := h.users.Register(r.Context(), body.Email, body.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userView{ID: user.ID, Email: user.Email})
}

// Connect handles GET /connect (login via Basic credentials).
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Basic ") {
		writeJSON(w, http.StatusUnauthorized, errorBody{"Unauthorized"})
		return
	}

	token, err := h.auth.Login(r.Context(), strings.TrimPrefix(authz, "Basic "))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Disconnect handles GET /disconnect (logout).
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), r.Header.Get(tokenHeader)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /users/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Authenticate(r.Context(), r.Header.Get(tokenHeader))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userView{ID: user.ID, Email: user.Email})
}

// CreateFile handles POST /files.
func (h *Handler) CreateFile(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Authenticate(r.Context(), r.Header.Get(tokenHeader))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var body struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Data     string `json:"data"`
		ParentID any    `json:"parentId"`
		IsPublic bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"Invalid JSON"})
		return
	}

	in := services.CreateFileInput{
		Name:     body.Name,
		Type:     body.Type,
		Data:     body.Data,
		ParentID: coerceParentID(body.ParentID),
		IsPublic: body.IsPublic,
	}

	file, err := h.files.Create(r.Context(), user, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFileView(file))
}

// GetFile handles GET /files/{id}.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Authenticate(r.Context(), r.Header.Get(tokenHeader))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	file, err := h.files.Get(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileView(file))
}

// ListFiles handles GET /files?parentId=&page=.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Authenticate(r.Context(), r.Header.Get(tokenHeader))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	entries, err := h.files.List(r.Context(), user, r.URL.Query().Get("parentId"), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	views := make([]fileView, 0, len(entries))
	for _, f := range entries {
		views = append(views, toFileView(f))
	}
	writeJSON(w, http.StatusOK, views)
}

// Publish handles PUT /files/{id}/publish.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

// Unpublish handles PUT /files/{id}/unpublish.
func (h *Handler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	user, err := h.auth.Authenticate(r.Context(), r.Header.Get(tokenHeader))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	file, err := h.files.SetVisibility(r.Context(), user, chi.URLParam(r, "id"), isPublic)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toFileView(file))
}

// FileData handles GET /files/{id}/data?size=. Authentication is optional:
// an invalid or missing token simply means the caller is anonymous, and the
// visibility rule decides from there.
func (h *Handler) FileData(w http.ResponseWriter, r *http.Request) {
	var requester *models.User
	if token := r.Header.Get(tokenHeader); token != "" {
		if user, err := h.auth.Authenticate(r.Context(), token); err == nil {
			requester = user
		}
	}

	data, contentType, err := h.files.ReadContent(r.Context(), requester, chi.URLParam(r, "id"), r.URL.Query().Get("size"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Status handles GET /status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status.Status(r.Context()))
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.status.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// coerceParentID accepts the parent id as a JSON string or number; the
// original API treated the numeric 0 as "no parent".
func coerceParentID(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatInt(int64(value), 10)
	default:
		return ""
	}
}
