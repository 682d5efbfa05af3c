// Package api serves the symbol pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness and build info
//	POST /v1/symbols              render one symbol (JSON, or PNG for raster)
//	POST /v1/packs                render all 16 style and season cells
//	GET  /v1/plants               list the catalog (when configured)
//	GET  /v1/plants/{name}        one catalog entry
//
// Request bodies are [pipeline.Options] in JSON. Errors are returned as
//
//	{"error": {"code": "SHAPE_ERROR", "field": "outline", "message": "..."}}
//
// with 400 for caller mistakes (including shape, parameter, palette and
// composition errors), 404 for unknown plants, 502 when rasterization fails
// and 500 otherwise.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/canopy/pkg/buildinfo"
	"github.com/matzehuels/canopy/pkg/catalog"
	"github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/pipeline"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 60 * time.Second

// Server holds the handlers' dependencies.
type Server struct {
	Runner  *pipeline.Runner
	Catalog catalog.Source // optional
	Logger  *log.Logger
	Timeout time.Duration
}

// NewServer returns a server rendering through runner. src may be nil.
func NewServer(runner *pipeline.Runner, src catalog.Source, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Catalog: src, Logger: logger, Timeout: DefaultTimeout}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	if s.Timeout > 0 {
		r.Use(middleware.Timeout(s.Timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/symbols", s.handleSymbol)
		r.Post("/packs", s.handlePack)
		r.Get("/plants", s.handleListPlants)
		r.Get("/plants/{name}", s.handleGetPlant)
	})
	return r
}

// observe reports requests to the HTTP hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, dur)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Field   string      `json:"field,omitempty"`
	Message string      `json:"message"`
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeRasterization):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "path", r.URL.Path, "error", err)
		if errors.GetCode(err) == "" {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Field: errors.FieldOf(err), Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

// symbolResponse is the JSON body for vector renders.
type symbolResponse struct {
	SVG      string            `json:"svg"`
	Metadata pipeline.Metadata `json:"metadata"`
}

func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	opts, err := pipeline.DecodeOptions(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.Logger

	res, err := s.Runner.Render(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setCacheHeader(w, res.CacheInfo.SymbolHit)
	if res.PNG != nil {
		md := res.Metadata
		h := w.Header()
		h.Set("Content-Type", "image/png")
		h.Set("X-Canopy-Style", md.Style)
		h.Set("X-Canopy-Season", md.Season)
		h.Set("X-Canopy-Scale", md.Scale)
		h.Set("X-Canopy-Seed", strconv.FormatUint(md.Seed, 10))
		h.Set("X-Canopy-Raster-Size", strconv.Itoa(md.RasterSize))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.PNG)
		return
	}
	writeJSON(w, http.StatusOK, symbolResponse{SVG: string(res.SVG), Metadata: res.Metadata})
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}
