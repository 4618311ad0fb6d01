package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/ali-khaled-949/myChatApp/internal/api/middleware"
	"github.com/ali-khaled-949/myChatApp/internal/domain"
	"github.com/ali-khaled-949/myChatApp/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	_, err := h.authService.Register(r.Context(), service.RegisterInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			// Matches the original surface: a duplicate username is reported
			// with a server-error status and message.
			http.Error(w, "Error registering new user: username already taken", http.StatusInternalServerError)
			return
		}
		log.Printf("ERROR [handlers.Register] %v", err)
		http.Error(w, "Error registering new user", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		// Unknown user and bad password take the same path so the response
		// never reveals which one it was.
		if errors.Is(err, domain.ErrInvalidCredentials) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		log.Printf("ERROR [handlers.Login] %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/chat", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			log.Printf("ERROR [handlers.Logout] %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusFound)
}
