package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// AuthMiddleware wraps the session store behind an explicit interface: views
// never touch a global flag, they ask this object. The session carries a
// single boolean marker plus an opaque owner ID used to scope per-session
// resources (staged previews, in-flight submissions).
type AuthMiddleware struct {
	store *sessions.CookieStore
}

func NewAuthMiddleware(store *sessions.CookieStore) *AuthMiddleware {
	return &AuthMiddleware{
		store: store,
	}
}

// RequireAuth redirects unauthenticated requests to /login before the
// wrapped handler runs, so a gated view issues zero backend calls without
// the flag.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.IsAuthenticated(r) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) IsAuthenticated(r *http.Request) bool {
	session, err := m.store.Get(r, "session")
	if err != nil {
		return false
	}

	auth, ok := session.Values["authenticated"].(bool)
	return ok && auth
}

// OwnerID returns the session's opaque owner key.
func (m *AuthMiddleware) OwnerID(r *http.Request) (string, bool) {
	session, err := m.store.Get(r, "session")
	if err != nil {
		return "", false
	}

	owner, ok := session.Values["owner_id"].(string)
	return owner, ok && owner != ""
}

// SetSession marks the session authenticated and assigns a fresh owner key.
func (m *AuthMiddleware) SetSession(w http.ResponseWriter, r *http.Request) error {
	session, err := m.store.Get(r, "session")
	if err != nil {
		return err
	}

	session.Values["authenticated"] = true
	session.Values["owner_id"] = uuid.NewString()

	return session.Save(r, w)
}

// ClearSession removes the authenticated marker and the owner key.
func (m *AuthMiddleware) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, err := m.store.Get(r, "session")
	if err != nil {
		return err
	}

	session.Values["authenticated"] = false
	delete(session.Values, "owner_id")

	return session.Save(r, w)
}
