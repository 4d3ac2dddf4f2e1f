package app

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"fense-console/config"
	"fense-console/internal/backend"
	"fense-console/internal/handler"
	"fense-console/internal/middleware"
	"fense-console/internal/preview"
	"fense-console/internal/service"
	"fense-console/pkg/datetime"
	"fense-console/pkg/ratelimit"
)

type Application struct {
	Router           *mux.Router
	Config           *config.Config
	Previews         *preview.Store
	Limiter          *ratelimit.Limiter
	AuthHandler      *handler.AuthHandler
	VerifyHandler    *handler.VerifyHandler
	DashboardHandler *handler.DashboardHandler
	NewsHandler      *handler.NewsHandler
	HistoryHandler   *handler.HistoryHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func New(cfg *config.Config) (*Application, error) {
	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	previews := preview.NewStore(30 * time.Minute)
	limiter := ratelimit.NewLimiter()
	dateFormatter := datetime.NewFormatter()

	authService := service.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, limiter)
	verifyService := service.NewVerifyService(client, previews, cfg.BackendTimeout)
	crawlService := service.NewCrawlService(client)
	newsService := service.NewNewsService(client)
	historyService := service.NewHistoryService(client)

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	authMiddleware := middleware.NewAuthMiddleware(sessionStore)
	authHandler := handler.NewAuthHandler(authService, authMiddleware, previews)
	verifyHandler := handler.NewVerifyHandler(verifyService, previews, authMiddleware)
	dashboardHandler := handler.NewDashboardHandler(crawlService)
	newsHandler := handler.NewNewsHandler(newsService)
	historyHandler := handler.NewHistoryHandler(historyService, dateFormatter)

	router := mux.NewRouter()

	app := &Application{
		Router:           router,
		Config:           cfg,
		Previews:         previews,
		Limiter:          limiter,
		AuthHandler:      authHandler,
		VerifyHandler:    verifyHandler,
		DashboardHandler: dashboardHandler,
		NewsHandler:      newsHandler,
		HistoryHandler:   historyHandler,
		AuthMiddleware:   authMiddleware,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

func (a *Application) setupMiddleware() {
	a.Router.Use(securityHeadersMiddleware(a.Config.IsProduction()))

	if a.Config.IsProduction() {
		log.Printf("CSRF Configuration - Production mode enabled")
		csrfOptions := []csrf.Option{
			csrf.Secure(true),
			csrf.HttpOnly(true),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
		}
		if a.Config.AppURL != "" {
			csrfOptions = append(csrfOptions, csrf.TrustedOrigins([]string{a.Config.AppURL}))
			log.Printf("CSRF Configuration - Trusted Origin: %s", a.Config.AppURL)
		}
		csrfMiddleware := csrf.Protect([]byte(a.Config.CSRFSecret), csrfOptions...)
		a.Router.Use(csrfMiddleware)
	} else {
		log.Printf("CSRF Configuration - Disabled in development mode")
	}
}

func securityHeadersMiddleware(isProduction bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if isProduction {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:;")
			} else {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:;")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *Application) setupRoutes() {
	a.Router.HandleFunc("/", a.redirectHome).Methods("GET")
	a.Router.HandleFunc("/login", a.AuthHandler.Login).Methods("GET", "POST")
	a.Router.HandleFunc("/logout", a.AuthHandler.Logout).Methods("GET")

	protected := a.Router.PathPrefix("/").Subrouter()
	protected.Use(a.AuthMiddleware.RequireAuth)

	protected.HandleFunc("/verify", a.VerifyHandler.ViewForm).Methods("GET")
	protected.HandleFunc("/verify", a.VerifyHandler.Submit).Methods("POST")
	protected.HandleFunc("/verify/image", a.VerifyHandler.StageImage).Methods("POST")
	protected.HandleFunc("/verify/image/remove", a.VerifyHandler.RemoveImage).Methods("POST")
	protected.HandleFunc("/preview/{id}", a.VerifyHandler.ServePreview).Methods("GET")

	protected.HandleFunc("/dashboard", a.DashboardHandler.ViewDashboard).Methods("GET")
	protected.HandleFunc("/dashboard/crawl", a.DashboardHandler.TriggerCrawl).Methods("POST")

	protected.HandleFunc("/news", a.NewsHandler.ViewNews).Methods("GET")
	protected.HandleFunc("/news/add", a.NewsHandler.AddNews).Methods("GET", "POST")
	protected.HandleFunc("/news/delete/{id}", a.NewsHandler.DeleteNews).Methods("POST")

	protected.HandleFunc("/history", a.HistoryHandler.ViewHistory).Methods("GET")

	a.Router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir("static"))),
	)
}

func (a *Application) redirectHome(w http.ResponseWriter, r *http.Request) {
	if a.AuthMiddleware.IsAuthenticated(r) {
		http.Redirect(w, r, "/verify", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Close releases cross-request resources: staged previews and the login
// limiter's background goroutine.
func (a *Application) Close() error {
	a.Previews.Close()
	a.Limiter.Close()
	return nil
}
