package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/ecoreciclaje/collection-core/internal/domain/points"
	"github.com/ecoreciclaje/collection-core/internal/domain/request"
	"github.com/ecoreciclaje/collection-core/internal/usecase"
)

const defaultSummaryEntries = 20

func (h *Handler) GetMyPointsSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPointsSummary")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	limit := defaultSummaryEntries
	if rawLimit := strings.TrimSpace(r.URL.Query().Get("limit")); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	summary, err := h.pointsService.Summary(ctx, principal.UserID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "points summary failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pointsSummaryToDTO(summary))
}

func (h *Handler) EstimatePoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EstimatePoints")
	defer span.End()

	var req estimatePayload
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	estimate, err := h.pointsService.Estimate(ctx, points.EstimateInput{
		Category:    request.Category(strings.ToUpper(strings.TrimSpace(req.Category))),
		QuantityKg:  req.QuantityKg,
		Material:    req.Material,
		Critical:    req.Critical,
		HighQuality: req.HighQuality,
		FirstTime:   req.FirstTime,
		Recurring:   req.Recurring,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, estimate)
}
