// Package httptransport is the thin HTTP layer over the casefile service. It
// decodes requests, delegates to the service, and translates outcomes and
// errors to JSON so no business logic lives in transport.
package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/pipeline"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/platform/middleware"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/transport/http/shared"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/pkg/requestcontext"

	dErrors "github.com/hmcts/cpp-context-prosecution-casefile-sub008/pkg/domain-errors"
)

// Service defines the validation operations the handler delegates to.
type Service interface {
	ValidateSubmission(ctx context.Context, sub pipeline.Submission) (*pipeline.Outcome, error)
	ValidateGroupSubmission(ctx context.Context, sub pipeline.GroupSubmission) (*pipeline.Outcome, error)
}

// Handler handles casefile validation endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// NewHandler creates the casefile Handler.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// Register registers the casefile routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	caseRouter := chi.NewRouter()
	caseRouter.Use(middleware.Recovery(h.logger))
	caseRouter.Use(middleware.RequestID)
	caseRouter.Use(middleware.Logger(h.logger))
	caseRouter.Use(middleware.Timeout(30 * time.Second))
	caseRouter.Use(middleware.ContentTypeJSON)
	caseRouter.Post("/casefiles/validate", h.handleValidate)
	caseRouter.Post("/casefiles/validate-group", h.handleValidateGroup)

	r.Mount("/", caseRouter)
}

// handleValidate validates a single case submission.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid validate request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Case.CaseID == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "prosecutionCase.caseId is required"))
		return
	}

	outcome, err := h.service.ValidateSubmission(ctx, req.toSubmission())
	if err != nil {
		h.logger.ErrorContext(ctx, "validation failed",
			"request_id", requestID,
			"case_id", req.Case.CaseID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "validation could not complete"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, toValidateResponse(outcome))
}

// handleValidateGroup validates a multi-case group submission.
func (h *Handler) handleValidateGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req groupValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid group validate request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.GroupReference == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "groupReference is required"))
		return
	}

	outcome, err := h.service.ValidateGroupSubmission(ctx, req.toSubmission())
	if err != nil {
		h.logger.ErrorContext(ctx, "group validation failed",
			"request_id", requestID,
			"group_reference", req.GroupReference,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "validation could not complete"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, toValidateResponse(outcome))
}
