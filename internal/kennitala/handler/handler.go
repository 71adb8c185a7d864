package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"kennitala/internal/kennitala/models"
	dErrors "kennitala/pkg/domain-errors"
	"kennitala/pkg/kennitala"
	"kennitala/pkg/platform/httputil"
	"kennitala/pkg/platform/middleware/request"
	"kennitala/pkg/platform/privacy"
	"kennitala/pkg/platform/validation"
)

// Service defines the kennitala operations used by handlers.
type Service interface {
	Inspect(ctx context.Context, raw string) (*models.Inspection, error)
	Generate(ctx context.Context, req models.GenerateRequest) (*models.Generated, error)
	GenerateRandom(ctx context.Context, count int) ([]models.Generated, error)
}

// Handler handles HTTP requests for kennitala operations.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new kennitala handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the handler routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/kennitala/inspect", h.HandleInspect)
	r.Post("/kennitala/generate", h.HandleGenerate)
	r.Post("/kennitala/random", h.HandleRandom)
}

// InspectRequest is the request body for inspection.
type InspectRequest struct {
	Kennitala string `json:"kennitala"`
}

func (r *InspectRequest) Normalize() {
	r.Kennitala = strings.TrimSpace(r.Kennitala)
}

func (r *InspectRequest) Validate() error {
	if r.Kennitala == "" {
		return dErrors.New(dErrors.CodeBadRequest, "kennitala is required")
	}
	return validation.CheckStringLength("kennitala", r.Kennitala, validation.MaxKennitalaInputLength)
}

// InspectResponse is the response body for inspection.
type InspectResponse struct {
	Kennitala   string `json:"kennitala"`
	Hyphenated  string `json:"hyphenated,omitempty"`
	Valid       bool   `json:"valid"`
	Kind        string `json:"kind,omitempty"`
	Birthdate   string `json:"birthdate,omitempty"`
	Age         int    `json:"age"`
	InspectedAt string `json:"inspected_at"`
}

// GenerateRequest is the request body for generating one code.
type GenerateRequest struct {
	Day   int    `json:"day"`
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Kind  string `json:"kind"`
}

func (r *GenerateRequest) Normalize() {
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
}

func (r *GenerateRequest) Validate() error {
	if err := validation.CheckStringLength("kind", r.Kind, validation.MaxKindLength); err != nil {
		return err
	}
	if _, err := kennitala.ParseKind(r.Kind); err != nil {
		return err
	}
	if err := validation.CheckRange("day", r.Day, 1, 31); err != nil {
		return err
	}
	return validation.CheckRange("month", r.Month, 1, 12)
}

// RandomRequest is the request body for random generation.
// A missing count means one code.
type RandomRequest struct {
	Count int `json:"count"`
}

func (r *RandomRequest) Normalize() {
	if r.Count == 0 {
		r.Count = 1
	}
}

func (r *RandomRequest) Validate() error {
	if r.Count < 1 {
		return dErrors.New(dErrors.CodeOutOfRange, "count must be positive")
	}
	return nil
}

// GeneratedResponse describes one generated code.
type GeneratedResponse struct {
	Kennitala  string `json:"kennitala"`
	Hyphenated string `json:"hyphenated"`
	Kind       string `json:"kind"`
	Birthdate  string `json:"birthdate"`
}

// RandomResponse is the response body for random generation.
type RandomResponse struct {
	Count int                 `json:"count"`
	Codes []GeneratedResponse `json:"codes"`
}

// HandleInspect handles POST /kennitala/inspect requests.
func (h *Handler) HandleInspect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[InspectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Inspect(ctx, req.Kennitala)
	if err != nil {
		h.logger.ErrorContext(ctx, "kennitala inspection failed",
			"request_id", requestID,
			"kennitala_suffix", privacy.RedactKennitala(req.Kennitala),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "kennitala inspected",
		"request_id", requestID,
		"kennitala_hash", privacy.HashKennitala(result.Cleaned),
		"valid", result.Valid,
	)

	httputil.WriteJSON(w, http.StatusOK, InspectResponse{
		Kennitala:   result.Cleaned,
		Hyphenated:  result.Hyphenated,
		Valid:       result.Valid,
		Kind:        string(result.Kind),
		Birthdate:   result.Birthdate,
		Age:         result.Age,
		InspectedAt: result.InspectedAt.Format(time.RFC3339),
	})
}

// HandleGenerate handles POST /kennitala/generate requests.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[GenerateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	kind, _ := kennitala.ParseKind(req.Kind)
	generated, err := h.service.Generate(ctx, models.GenerateRequest{
		Day:   req.Day,
		Month: req.Month,
		Year:  req.Year,
		Kind:  kind,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "kennitala generation rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "kennitala generated",
		"request_id", requestID,
		"kind", generated.Kind,
	)

	httputil.WriteJSON(w, http.StatusCreated, toGeneratedResponse(*generated))
}

// HandleRandom handles POST /kennitala/random requests.
func (h *Handler) HandleRandom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RandomRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	generated, err := h.service.GenerateRandom(ctx, req.Count)
	if err != nil {
		h.logger.WarnContext(ctx, "random kennitala generation failed",
			"request_id", requestID,
			"count", req.Count,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	codes := make([]GeneratedResponse, 0, len(generated))
	for _, g := range generated {
		codes = append(codes, toGeneratedResponse(g))
	}

	h.logger.InfoContext(ctx, "random kennitala batch generated",
		"request_id", requestID,
		"count", len(codes),
	)

	httputil.WriteJSON(w, http.StatusCreated, RandomResponse{
		Count: len(codes),
		Codes: codes,
	})
}

func toGeneratedResponse(g models.Generated) GeneratedResponse {
	return GeneratedResponse{
		Kennitala:  g.Kennitala,
		Hyphenated: g.Hyphenated,
		Kind:       string(g.Kind),
		Birthdate:  g.Birthdate,
	}
}
