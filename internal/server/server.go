package server

import (
	"errors"

	"github.com/elderplan/carefund/internal/calculation"
	"github.com/elderplan/carefund/internal/domain"
	"github.com/elderplan/carefund/internal/rules"
	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// Server is the thin HTTP surface over the assessment engine. It owns no
// calculation logic: decode, delegate, encode.
type Server struct {
	engine *calculation.Engine
	rules  *rules.Provider
	logger calculation.Logger
}

// New creates a server around an engine and a rules provider.
func New(engine *calculation.Engine, provider *rules.Provider, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Server{engine: engine, rules: provider, logger: logger}
}

// ListenAndServe blocks serving HTTP on addr.
func (s *Server) ListenAndServe(addr string) error {
	return fasthttp.ListenAndServe(addr, s.Handle)
}

// Handle routes a single request.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/v1/assessments":
		if !ctx.IsPost() {
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed", "")
			return
		}
		s.handleAssess(ctx)
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found", "")
	}
}

func (s *Server) handleAssess(ctx *fasthttp.RequestCtx) {
	var req domain.AssessmentRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}

	active, err := s.rules.Active()
	if err != nil {
		s.logger.Errorf("no active rules configuration: %v", err)
		writeError(ctx, fasthttp.StatusServiceUnavailable, "service unavailable", "")
		return
	}

	result, err := s.engine.Assess(&req, active)
	if err != nil {
		s.writeAssessError(ctx, err)
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	if encodeErr := json.NewEncoder(ctx).Encode(result); encodeErr != nil {
		s.logger.Errorf("failed to encode assessment result: %v", encodeErr)
	}
}

// writeAssessError maps the engine's error taxonomy onto HTTP. Validation
// messages go straight to the caller with their field path; configuration
// failures surface as a generic service-unavailable while the detail is
// logged in full.
func (s *Server) writeAssessError(ctx *fasthttp.RequestCtx, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(ctx, fasthttp.StatusBadRequest, ve.Message, ve.Field)
		return
	}

	var ce *domain.ConfigurationError
	if errors.As(err, &ce) {
		s.logger.Errorf("configuration error at %s: %s", ce.Field, ce.Message)
		writeError(ctx, fasthttp.StatusServiceUnavailable, "service unavailable", "")
		return
	}

	s.logger.Errorf("assessment failed: %v", err)
	writeError(ctx, fasthttp.StatusInternalServerError, "internal error", "")
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeError(ctx *fasthttp.RequestCtx, status int, message, field string) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	_ = json.NewEncoder(ctx).Encode(ErrorResponse{Status: status, Message: message, Field: field})
}
