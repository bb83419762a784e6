// Package server exposes a read-only HTTP preview of the catalog: playlists
// synthesized on demand, raw catalog JSON, alternate-id lookups, and the
// ingest ledger.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/spf13/afero"

	"m3urepo/internal/catalog"
	"m3urepo/internal/config"
	"m3urepo/internal/history"
	"m3urepo/internal/logging"
	"m3urepo/internal/playlist"
	"m3urepo/internal/services"
)

const playlistContentType = "audio/x-mpegurl; charset=utf-8"

// Server serves the preview endpoints.
type Server struct {
	bind    string
	dir     *catalog.Dir
	synth   *playlist.Synthesizer
	history *history.Store
	files   http.Handler
	logger  *slog.Logger

	listener net.Listener
	server   *http.Server
}

// New constructs a server. hist may be nil when the ledger is disabled.
func New(cfg *config.Config, dir *catalog.Dir, synth *playlist.Synthesizer, hist *history.Store, logger *slog.Logger) *Server {
	readOnly := afero.NewReadOnlyFs(afero.NewBasePathFs(dir.Fs(), dir.Root()))
	s := &Server{
		bind:    strings.TrimSpace(cfg.Server.Bind),
		dir:     dir,
		synth:   synth,
		history: hist,
		files:   http.StripPrefix("/api", http.FileServer(afero.NewHttpFs(readOnly).Dir("/"))),
		logger:  logging.NewComponentLogger(logger, "server"),
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestContext)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/movies.m3u", s.handlePlaylist(catalog.Movies)).Methods(http.MethodGet)
	r.HandleFunc("/tv-series.m3u", s.handlePlaylist(catalog.Series)).Methods(http.MethodGet)
	r.HandleFunc("/alts/{kind}/{id}", s.handleAlt).Methods(http.MethodGet)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	r.PathPrefix("/api/").HandlerFunc(s.handleCatalogFile).Methods(http.MethodGet)
	return r
}

// Serve listens on the configured address and blocks until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "server", "listen", s.bind, err)
	}
	s.listener = listener

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()
	s.logger.Info("preview server listening", logging.String("address", listener.Addr().String()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.logger.Info("preview server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

// Addr returns the bound address once Serve is listening.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := services.WithRequestID(r.Context(), uuid.NewString())
		started := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.WithContext(ctx, s.logger).Debug(
			"request served",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Duration("elapsed", time.Since(started)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePlaylist(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, report, err := s.synth.Playlist(r.Context(), kind)
		if err != nil {
			logging.WithContext(r.Context(), s.logger).Error("playlist synthesis failed", logging.Error(err))
			s.writeError(w, http.StatusInternalServerError, "playlist synthesis failed")
			return
		}
		w.Header().Set("Content-Type", playlistContentType)
		w.Header().Set("X-Playlist-Entries", strconv.Itoa(report.Entries))
		w.Header().Set("X-Playlist-Skipped", strconv.Itoa(len(report.Skips)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(content))
	}
}

func (s *Server) handleAlt(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, err := catalog.ParseKind(vars["kind"])
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	id := strings.TrimSuffix(vars["id"], ".json")
	entry, ok, err := s.dir.ReadAlt(kind, id)
	switch {
	case errors.Is(err, services.ErrMalformed):
		s.writeError(w, http.StatusInternalServerError, err.Error())
	case err != nil:
		s.writeError(w, http.StatusBadRequest, err.Error())
	case !ok:
		s.writeError(w, http.StatusNotFound, "alternate id not found")
	default:
		s.writeJSON(w, http.StatusOK, altResponse{ID: id, Type: entry.Type, Title: entry.Title, Slugs: entry.Slugs})
	}
}

type altResponse struct {
	ID    string       `json:"id"`
	Type  catalog.Kind `json:"type,omitempty"`
	Title string       `json:"title,omitempty"`
	Slugs []string     `json:"slug"`
}

type historyRun struct {
	RunID     string    `json:"run_id"`
	Issue     string    `json:"issue,omitempty"`
	Kind      string    `json:"kind"`
	Slug      string    `json:"slug,omitempty"`
	Title     string    `json:"title,omitempty"`
	Added     int       `json:"added"`
	Skipped   int       `json:"skipped"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusNotFound, "history disabled")
		return
	}
	filter := history.Filter{Kind: r.URL.Query().Get("kind"), Limit: 50}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}
	runs, err := s.history.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]historyRun, 0, len(runs))
	for _, run := range runs {
		out = append(out, historyRun{
			RunID:     run.RunID,
			Issue:     run.Issue,
			Kind:      run.Kind,
			Slug:      run.Slug,
			Title:     run.Title,
			Added:     run.Added,
			Skipped:   run.Skipped,
			Status:    string(run.Status),
			Error:     run.Error,
			CreatedAt: run.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

// handleCatalogFile serves JSON documents from the catalog tree. Directory
// listings and other file types are not exposed.
func (s *Server) handleCatalogFile(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean(r.URL.Path)
	if path.Ext(clean) != ".json" || strings.Contains(r.URL.Path, "..") {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	s.files.ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
