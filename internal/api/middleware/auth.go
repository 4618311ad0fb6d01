package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/ali-khaled-949/myChatApp/internal/domain"
	"github.com/ali-khaled-949/myChatApp/internal/service"
	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
)

// SessionCookieName is the cookie carrying the signed session reference. The
// websocket handshake reads the same cookie, so both layers resolve identity
// against the same session store.
const SessionCookieName = "chat_session"

// Auth gates page routes behind a live session. An invalid or expired
// session is never surfaced as an error; the request is redirected to the
// login page.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			userID, err := authService.CurrentIdentity(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, domain.ErrSessionInvalid) {
					log.Printf("ERROR [middleware.Auth] session lookup failed: %v", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
