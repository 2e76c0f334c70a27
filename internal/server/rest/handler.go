package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/auth"
	"github.com/dmitrijs2005/linkshare/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type meResponse struct {
	User auth.Claims `json:"user"`
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}

	user, err := s.users.Register(r.Context(), creds)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", user.ID, "username", user.UserName)
	writeJSON(w, http.StatusCreated, registerResponse{Message: "User created successfully", UserID: user.ID})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var creds services.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}

	result, err := s.users.Login(r.Context(), creds)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Info(r.Context(), "Login failed", "username", creds.Username)
		}
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgTokenRequired)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{User: claims})
}

func (s *HTTPServer) listArticles(w http.ResponseWriter, r *http.Request) {
	list, err := s.articles.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) createArticle(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgTokenRequired)
		return
	}

	var in services.NewArticle
	if !decodeBody(w, r, &in) {
		return
	}

	view, err := s.articles.Create(r.Context(), claims.Identity(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *HTTPServer) deleteArticle(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, MsgTokenRequired)
		return
	}

	// An id that cannot name a row is reported like a missing row.
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, services.MsgArticleNotFound)
		return
	}

	err = s.articles.Delete(r.Context(), claims.Identity(), id)
	switch {
	case err == nil:
		s.logger.Info(r.Context(), "Article deleted", "article_id", id, "user_id", claims.UserID)
		writeJSON(w, http.StatusOK, messageResponse{Message: "Article deleted successfully"})
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, services.MsgArticleNotFound)
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, services.MsgDeleteNotAllowed)
	default:
		s.fail(w, r, err)
	}
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
