// Package server exposes replays over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rxtech-lab/horizon-replay/internal/logger"
	"github.com/rxtech-lab/horizon-replay/internal/replay/engine"
	"github.com/rxtech-lab/horizon-replay/internal/replay/writers"
	"github.com/rxtech-lab/horizon-replay/internal/version"
	"github.com/rxtech-lab/horizon-replay/pkg/errors"
	"github.com/rxtech-lab/horizon-replay/pkg/ticksource"
)

const (
	// RunIDHeader carries the run id of a replay answered by the server.
	RunIDHeader         = "X-Replay-Run-Id"
	// EngineVersionHeader carries the engine version. Clients may send it to pin
	// the major and minor version their stored metrics were produced with.
	EngineVersionHeader = "X-Replay-Engine-Version"
)

// maxRequestBytes bounds the size of a replay request body.
const maxRequestBytes = 1 << 16

// Server serves replay requests.
type Server struct {
	engine   engine.ReplayEngine
	exporter writers.ResultWriter
	log      *logger.Logger

	httpServer *http.Server
	listener   net.Listener
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code  errors.ErrorCode `json:"code"`
	Kind  string           `json:"kind"`
	Error string           `json:"error"`
}

// NewServer creates a server answering with replayEngine. exporter may be nil,
// in which case results are not exported.
func NewServer(replayEngine engine.ReplayEngine, exporter writers.ResultWriter, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Server{
		engine:     replayEngine,
		exporter:   exporter,
		log:        log,
		httpServer: nil,
		listener:   nil,
	}
}

// Handler returns the router of the server.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/providers", s.handleProviders).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/replay", s.handleReplay).Methods(http.MethodPost)

	return router
}

// Start starts serving on address. If address is empty or ":0", a random
// available port is used.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("Replay server listening", zap.String("address", listener.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the server down, waiting for in-flight replays until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.GetVersion()})
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	providers := make([]ticksource.ProviderInfo, 0)
	for _, name := range ticksource.GetSupportedProviders() {
		info, err := ticksource.GetProviderInfo(name)
		if err != nil {
			s.writeError(w, err)

			return
		}

		providers = append(providers, info)
	}

	writeJSON(w, http.StatusOK, providers)
}

// handleReplay handles POST /api/v1/replay
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(EngineVersionHeader, version.GetVersion())

	if err := version.CheckCompatibility(version.GetVersion(), r.Header.Get(EngineVersionHeader)); err != nil {
		s.writeError(w, err)

		return
	}

	var request engine.ReplayRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&request); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidParameter, "malformed replay request", err))

		return
	}

	result, err := s.engine.Run(r.Context(), request, engine.LifecycleCallbacks{})
	if err != nil {
		s.writeError(w, err)

		return
	}

	if s.exporter != nil {
		if _, _, err := s.exporter.Write(request, result); err != nil {
			s.log.Warn("Failed to export replay results", zap.String("run_id", result.RunID), zap.Error(err))
		}
	}

	w.Header().Set(RunIDHeader, result.RunID)
	writeJSON(w, http.StatusOK, result.Metrics)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusForError(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("Replay request failed", zap.Int("status", status), zap.Error(err))
	} else {
		s.log.Debug("Replay request rejected", zap.Int("status", status), zap.Error(err))
	}

	writeJSON(w, status, ErrorResponse{
		Code:  errors.GetCode(err),
		Kind:  errors.GetCode(err).String(),
		Error: err.Error(),
	})
}

// StatusForError maps an error code to the HTTP status answered for it.
func StatusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidParameter,
		errors.ErrCodePreconditionViolation,
		errors.ErrCodeBadTimestamp,
		errors.ErrCodeWindowTooLarge:
		return http.StatusBadRequest
	case errors.ErrCodeAuthMissing:
		return http.StatusUnauthorized
	case errors.ErrCodeVersionMismatch:
		return http.StatusConflict
	case errors.ErrCodeEmptyWindow, errors.ErrCodeNoInstruments, errors.ErrCodeInvalidProvider:
		return http.StatusNotFound
	case errors.ErrCodeUpstreamUnavailable, errors.ErrCodeQueryFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
