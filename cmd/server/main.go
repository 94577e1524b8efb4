package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Simplici0/cotiza3d/internal/config"
	"github.com/Simplici0/cotiza3d/internal/db"
	"github.com/Simplici0/cotiza3d/internal/logging"
	"github.com/Simplici0/cotiza3d/internal/metrics"
	"github.com/Simplici0/cotiza3d/internal/migrations"
	"github.com/Simplici0/cotiza3d/internal/pricing"
	"github.com/Simplici0/cotiza3d/internal/rates"
	"github.com/Simplici0/cotiza3d/internal/seed"
	"github.com/Simplici0/cotiza3d/web"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	auth    *authService
	db      *sql.DB
	engine  *pricing.Engine
	metrics *metrics.Metrics
}

type baseViewData struct {
	ErrorMessage string
}

type loginViewData struct {
	baseViewData
}

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(os.Stderr, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.IsDev() && cfg.SessionSecret == "" {
		slog.Warn("signing sessions with an empty secret", "env", cfg.Env)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return fmt.Errorf("run database migrations: %w", err)
	}
	version, err := migrations.Version(database)
	if err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath, "schema_version", version)

	stats, err := seed.Run(ctx, database, seed.Config{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword})
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	slog.Info("seed complete", "inserts", stats.Inserts)

	engine, err := rates.LoadEngine(ctx, database)
	if err != nil {
		return fmt.Errorf("load pricing config: %w", err)
	}
	slog.Info("pricing config loaded",
		"materials", len(engine.Catalog().Materials()),
		"total_commission", engine.Config().TotalCommissionRate(),
		"vat", engine.Config().VATRate,
	)

	srv := &server{
		auth:    newAuthService(database, cfg.SessionSecret),
		db:      database,
		engine:  engine,
		metrics: metrics.New(),
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	slog.Info("server shutdown gracefully")
	return nil
}

func (s *server) routes() http.Handler {
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		panic(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(s.authMiddleware)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLoginSubmit)
	r.Post("/logout", s.handleLogout)

	r.Get("/", s.handleCalculator)
	r.Get("/quote.txt", s.handleQuoteText)
	r.Get("/api/quote", s.handleQuoteQuery)
	r.Post("/api/quote", s.handleQuoteJSON)
	r.Get("/api/materials", s.handleMaterials)

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if isAuthenticated(r, s.auth) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	valid, err := s.auth.validateCredentials(r.Context(), email, password)
	if err != nil {
		slog.Error("validate credentials", "error", err)
		http.Error(w, "authentication error", http.StatusInternalServerError)
		return
	}
	if !valid {
		slog.Warn("rejected login", "email", email)
		w.WriteHeader(http.StatusUnauthorized)
		s.renderTemplate(w, "login.html", loginViewData{baseViewData: baseViewData{ErrorMessage: "Credenciales inválidas. Intenta de nuevo."}})
		return
	}

	s.auth.setSessionCookie(w, email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *server) renderTemplate(w http.ResponseWriter, page string, data any) {
	templates, err := template.ParseFS(web.FS,
		"templates/layout.html",
		"templates/"+page,
	)
	if err != nil {
		slog.Error("parse template", "page", page, "error", err)
		http.Error(w, "failed to parse template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("render template", "page", page, "error", err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/login", r.URL.Path == "/healthz", r.URL.Path == "/metrics",
			strings.HasPrefix(r.URL.Path, "/static/"):
			next.ServeHTTP(w, r)
			return
		}

		if !isAuthenticated(r, s.auth) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isAuthenticated(r *http.Request, auth *authService) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}

	_, ok := auth.verifySessionValue(cookie.Value)
	return ok
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
