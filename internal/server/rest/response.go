package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/services"
)

const (
	MsgTokenRequired    = "Access token required"
	MsgTokenInvalid     = "Invalid or expired token"
	MsgAdminRequired    = "Admin access required"
	MsgServerError      = "Server error"
	MsgInvalidBody      = "Invalid request body"
	MsgNotFound         = "Not found"
	MsgMethodNotAllowed = "Method not allowed"
	MsgTooManyRequests  = "Too many requests, please try again later"
	MsgForbidden        = "Forbidden"
)

// maxBodyBytes bounds request bodies; every accepted body is a small JSON object.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps a service error onto its status and client message. Anything
// outside the known kinds is logged in full and reported as a bare 500.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusBadRequest, services.MsgUsernameTaken)
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, services.MsgInvalidCredential)
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, MsgForbidden)
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, MsgNotFound)
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
		writeError(w, http.StatusInternalServerError, MsgServerError)
	}
}

// decodeBody reads a JSON body into dst. On failure it has already written
// a 400 response.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return false
	}
	return true
}
