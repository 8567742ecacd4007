// Package api exposes the split and ranking pipelines over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	service "github.com/okian/rankmerge/internal/app"
	"github.com/okian/rankmerge/pkg/logger"
)

// Pipelines is the part of the service the handlers depend on.
type Pipelines interface {
	Split(ctx context.Context, path string) (service.SplitResult, error)
	Rank(ctx context.Context, primaryPath, secondaryPath string) (service.RankingResult, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	splitHandler    *SplitHandler
	rankingsHandler *RankingsHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	logger  logger.Logger
	baseDir string
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) ServerOption {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBaseDir confines request paths to dir. Relative paths are resolved
// against it.
func WithBaseDir(dir string) ServerOption {
	return func(o *serverOptions) {
		o.baseDir = dir
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Pipelines, opts ...ServerOption) *Server {
	o := serverOptions{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	paths := pathResolver{base: o.baseDir}
	return &Server{
		healthHandler:   NewHealthHandler(),
		splitHandler:    &SplitHandler{deps: deps, paths: paths, logger: o.logger},
		rankingsHandler: &RankingsHandler{deps: deps, paths: paths, logger: o.logger},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.healthHandler.metrics)
	mux.HandleFunc("/split", MetricsMiddleware(s.splitHandler.HandleSplit, "split"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleRankings, "rankings"))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// decode reads a JSON body into v and validates its struct tags.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest(err)
	}
	if err := validate.StructCtx(r.Context(), v); err != nil {
		return badRequest(err)
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func allowPost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", http.MethodPost)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
	return false
}
