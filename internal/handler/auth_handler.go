package handler

import (
	"errors"
	"html/template"
	"log"
	"net"
	"net/http"

	"github.com/gorilla/csrf"

	"fense-console/internal/domain"
	"fense-console/internal/middleware"
	"fense-console/internal/preview"
	"fense-console/internal/service"
)

type AuthHandler struct {
	authService    *service.AuthService
	authMiddleware *middleware.AuthMiddleware
	previews       *preview.Store
	loginTemplate  *template.Template
}

func NewAuthHandler(authService *service.AuthService, authMiddleware *middleware.AuthMiddleware, previews *preview.Store) *AuthHandler {
	loginTemplate, err := template.ParseFiles("templates/login.html")
	if err != nil {
		log.Fatalf("Failed to parse login template: %v", err)
	}

	return &AuthHandler{
		authService:    authService,
		authMiddleware: authMiddleware,
		previews:       previews,
		loginTemplate:  loginTemplate,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		h.showLoginPage(w, r, "", "")
		return
	}

	if r.Method == "POST" {
		h.handleLoginPost(w, r)
		return
	}

	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func (h *AuthHandler) showLoginPage(w http.ResponseWriter, r *http.Request, username, errMsg string) {
	data := map[string]interface{}{
		"Username":  username,
		"Error":     errMsg,
		"csrfField": csrf.TemplateField(r),
	}

	h.loginTemplate.Execute(w, data)
}

func (h *AuthHandler) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	err := h.authService.Authenticate(username, password, remoteKey(r))
	if err != nil {
		log.Printf("Login failed for %q from %s: %v", username, r.RemoteAddr, err)

		message := "Tên đăng nhập hoặc mật khẩu không đúng."
		if errors.Is(err, domain.ErrTooManyAttempts) {
			message = "Bạn đã thử quá nhiều lần, vui lòng thử lại sau."
		}
		h.showLoginPage(w, r, username, message)
		return
	}

	if err := h.authMiddleware.SetSession(w, r); err != nil {
		log.Printf("Failed to set session: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	log.Printf("Operator %s logged in", username)
	http.Redirect(w, r, "/verify", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Release any staged preview before the owner key is dropped.
	if owner, ok := h.authMiddleware.OwnerID(r); ok {
		h.previews.Remove(owner)
	}

	if err := h.authMiddleware.ClearSession(w, r); err != nil {
		log.Printf("Error clearing session: %v", err)
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func remoteKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
