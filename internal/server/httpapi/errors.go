package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vtumanov/filevault/internal/common"
)

// errorBody is the machine-readable failure shape: {"error": "<reason>"}.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps sentinel errors to their status classification. Anything
// unmatched is an internal error; its details are logged, never exposed.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var badRequest *common.BadRequestError
	switch {
	case errors.As(err, &badRequest):
		writeJSON(w, http.StatusBadRequest, errorBody{badRequest.Reason})
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{"Unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{"Not found"})
	case errors.Is(err, common.ErrorAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody{"Already exist"})
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorBody{"internal error"})
	}
}
