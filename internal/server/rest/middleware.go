package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/logging"
	"github.com/dmitrijs2005/linkshare/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

// bearerToken extracts the token from "Bearer <token>". The scheme is
// case-sensitive and followed by exactly one space.
func bearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix)
	if !ok {
		return ""
	}
	return token
}

// Authenticate rejects requests without a bearer token (401) or with one
// that fails verification (403), and otherwise stores the token's claims
// in the request context. Expired and malformed tokens get the same answer.
func Authenticate(tokens *auth.TokenService, l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, MsgTokenRequired)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, common.ErrTokenExpired) {
					reason = "expired"
				}
				l.Debug(r.Context(), "token rejected", "reason", reason, "path", r.URL.Path)
				writeError(w, http.StatusForbidden, MsgTokenInvalid)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), *claims)))
		})
	}
}

// RequireAdmin must run after Authenticate. Requests without claims are
// denied like non-admins.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok || !claims.IsAdmin {
			writeError(w, http.StatusForbidden, MsgAdminRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			s.logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
