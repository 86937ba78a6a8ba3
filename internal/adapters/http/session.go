package http

import (
	"context"
	"net/http"
	"time"
)

const sessionCookieName = "brd_session"

const sessionTTL = 24 * time.Hour

type contextKey string

const sessionTokenKey contextKey = "session_token"

// ensureSession guarantees every API request belongs to an edit session
// so the current project selection has somewhere to live. A missing or
// stale cookie gets a fresh anonymous session; sessions carry no
// identity and grant nothing.
func (h *Handler) ensureSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
			if _, err := h.service.ResolveSession(r.Context(), c.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(withSessionToken(r.Context(), c.Value)))
				return
			}
		}

		token, err := h.service.StartSession(r.Context(), sessionTTL)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "session setup failed"})
			return
		}
		setSessionCookie(w, token)
		next.ServeHTTP(w, r.WithContext(withSessionToken(r.Context(), token)))
	})
}

func withSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey, token)
}

func sessionToken(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(sessionTokenKey).(string)
	return token, ok && token != ""
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
