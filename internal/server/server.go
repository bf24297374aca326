package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/content"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/outline"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/prefs"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/session"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/site"
)

// Config holds server configuration.
type Config struct {
	Port           int
	AllowAll       bool     // allow all CORS origins (dev mode)
	AllowedOrigins []string // extra origins besides localhost
}

// Server serves the whitepaper pages, the outline API and live sessions.
type Server struct {
	cfg        Config
	renderer   *site.Renderer
	catalog    *content.Catalog
	prefs      *prefs.Store
	hub        *session.Hub
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. logger may be nil.
func New(cfg Config, renderer *site.Renderer, store *prefs.Store, hub *session.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		cfg:      cfg,
		renderer: renderer,
		catalog:  renderer.Catalog(),
		prefs:    store,
		hub:      hub,
		logger:   logger.With("component", "http"),
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   append([]string{"http://localhost:*", "http://127.0.0.1:*"}, s.cfg.AllowedOrigins...),
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Live sessions outlive any request timeout.
	r.Get("/ws/{locale}", func(w http.ResponseWriter, r *http.Request) {
		s.hub.Serve(w, r, chi.URLParam(r, "locale"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.hub.Count()})
		})

		r.Get("/", s.handleRoot)
		r.Get("/{locale}", s.handlePage)
		r.Get("/{locale}/", s.handlePage)
		r.Handle("/assets/*", http.StripPrefix("/assets/", site.AssetHandler()))

		r.Get("/api/locales", s.handleLocales)
		r.Get("/api/{locale}/outline", s.handleOutline)
		if s.prefs != nil {
			prefs.RegisterRoutes(r, s.prefs, func(l string) bool {
				_, err := s.catalog.Lookup(l)
				return err == nil
			})
		}
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live session hub.
func (s *Server) Hub() *session.Hub { return s.hub }

// handleRoot redirects to the visitor's saved locale, else the best
// Accept-Language match, else the default locale.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	locale := ""
	if s.prefs != nil {
		if p, ok := s.prefs.ForRequest(r.Context(), r); ok && p.Locale != "" {
			if _, err := s.catalog.Lookup(p.Locale); err == nil {
				locale = p.Locale
			}
		}
	}
	if locale == "" {
		locale = s.catalog.Match(r.Header.Get("Accept-Language"))
	}
	http.Redirect(w, r, "/"+locale+"/", http.StatusFound)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	if _, err := s.catalog.Lookup(locale); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	theme := ""
	if s.prefs != nil {
		if p, ok := s.prefs.ForRequest(r.Context(), r); ok && p.Theme != prefs.ThemeSystem {
			theme = string(p.Theme)
		}
	}

	var buf bytes.Buffer
	err := s.renderer.Page(&buf, locale, site.PageOptions{
		Theme:      theme,
		BasePath:   "/",
		AssetsPath: "assets/",
		LiveURL:    "/ws/" + locale,
	})
	if err != nil {
		s.logger.Error("rendering page", "locale", locale, "error", err)
		http.Error(w, "rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleLocales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default": s.catalog.DefaultLocale(),
		"locales": s.catalog.Languages(),
	})
}

// outlineResponse is the filtered outline of one locale.
type outlineResponse struct {
	Locale    string            `json:"locale"`
	Query     string            `json:"query"`
	Active    string            `json:"active,omitempty"`
	Progress  int               `json:"progress"`
	NoMatches bool              `json:"no_matches"`
	Sections  []outline.Section `json:"sections"`
}

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	doc, err := s.catalog.Lookup(chi.URLParam(r, "locale"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	query := r.URL.Query().Get("q")
	active := r.URL.Query().Get("active")
	if active != "" {
		if _, ok := doc.Section(active); !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown section: %s", active))
			return
		}
	}

	sections := doc.Outline()
	matched := outline.Filter(query, sections)
	writeJSON(w, http.StatusOK, outlineResponse{
		Locale:    doc.Locale(),
		Query:     query,
		Active:    active,
		Progress:  outline.ProgressPercent(active, outline.IDs(sections)),
		NoMatches: len(matched) == 0,
		Sections:  matched,
	})
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("whitepaper server listening", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then closes every live session.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.hub.CloseAll()
	return err
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debug("request",
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
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
