// Package relay is the loopback HTTP transport carrying bridge payloads
// between the extraction side and a canvas plugin. It holds the most recent
// validated payload in memory; nothing is persisted.
package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pagebridge/pagebridge/bridge"
	"github.com/pagebridge/pagebridge/idgen"
	"github.com/pagebridge/pagebridge/kit"
)

// maxPayloadBytes bounds an inbound payload. Large pages with inlined
// images stay well under this.
const maxPayloadBytes = 64 << 20

// Server is the relay. Create with New, run with ListenAndServe.
type Server struct {
	addr string
	log  *slog.Logger
	ids  idgen.Generator

	mu      sync.RWMutex
	latest  []byte
	savedAt time.Time
}

// New creates a relay server bound to addr (loopback by convention).
func New(addr string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		addr: addr,
		log:  log,
		ids:  idgen.Prefixed("req_", idgen.UUIDv7()),
	}
}

// Handler returns the relay's HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Post("/v1/payload", s.handlePost)
	r.Get("/v1/payload/latest", s.handleLatest)
	r.Get("/healthz", s.handleHealth)
	return r
}

// ListenAndServe runs the relay until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("relay listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := s.ids()
		ctx := kit.WithRequestID(r.Context(), id)
		ctx = kit.WithTransport(ctx, "http")
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// handlePost validates and stores a payload. Invalid payloads are rejected
// whole; the previous latest payload stays intact.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	if len(data) > maxPayloadBytes {
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}
	if err := bridge.Validate(data); err != nil {
		s.log.Warn("payload rejected", "request", kit.GetRequestID(r.Context()), "err", err)
		http.Error(w, "invalid payload: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	s.latest = data
	s.savedAt = time.Now()
	s.mu.Unlock()

	s.log.Info("payload accepted",
		"request", kit.GetRequestID(r.Context()), "bytes", len(data))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	data := s.latest
	savedAt := s.savedAt
	s.mu.RUnlock()

	if data == nil {
		http.Error(w, "no payload", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Payload-Saved-At", savedAt.UTC().Format(time.RFC3339))
	w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
