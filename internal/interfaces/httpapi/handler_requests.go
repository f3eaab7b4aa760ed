package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/ecoreciclaje/collection-core/internal/domain/request"
	"github.com/ecoreciclaje/collection-core/internal/usecase"
)

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createRequestPayload
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

	created, err := h.requestService.Create(ctx, usecase.CreateRequestInput{
		UserID:      principal.UserID,
		Category:    req.Category,
		Frequency:   req.Frequency,
		RequestedAt: req.RequestedDate,
		Address:     req.Address,
		Note:        req.Note,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create request failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, requestToDTO(created))
}

func (h *Handler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyRequests")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	filter := request.ListFilter{}
	if state := strings.TrimSpace(r.URL.Query().Get("state")); state != "" {
		filter.State = request.State(strings.ToUpper(state))
	}
	if rawLimit := strings.TrimSpace(r.URL.Query().Get("limit")); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		filter.Limit = limit
	}

	items, err := h.requestService.ListByUser(ctx, principal.UserID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list requests failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, requestsToDTO(items))
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	requestID := r.PathValue("requestID")
	req, err := h.requestService.Get(ctx, requestID, principal.UserID, principal.IsAdmin())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, requestToDTO(req))
}

func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req cancelRequestPayload
	if r.ContentLength > 0 {
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
	}

	cancelled, err := h.requestService.Cancel(ctx, usecase.CancelRequestInput{
		RequestID: r.PathValue("requestID"),
		CallerID:  principal.UserID,
		AsAdmin:   principal.IsAdmin(),
		Reason:    req.Reason,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "cancel request failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, requestToDTO(cancelled))
}

func (h *Handler) AssignRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	if !principal.CanCollect() {
		writeError(ctx, w, fmt.Errorf("%w: collector role required", usecase.ErrUnauthorized))
		return
	}

	assigned, err := h.requestService.Assign(ctx, r.PathValue("requestID"))
	if err != nil {
		h.logger.WarnContext(ctx, "assign request failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, requestToDTO(assigned))
}

func (h *Handler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteRequest")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	if !principal.CanCollect() {
		writeError(ctx, w, fmt.Errorf("%w: collector role required", usecase.ErrUnauthorized))
		return
	}

	var req completeRequestPayload
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

	out, err := h.requestService.Complete(ctx, usecase.CompleteRequestInput{
		RequestID: r.PathValue("requestID"),
		CompanyID: principal.UserID,
		WeightKg:  req.WeightKg,
		Separated: req.Separated,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "complete request failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, completionDTO{
		Request:       requestToDTO(out.Request),
		RecordID:      out.Record.ID,
		WeightKg:      out.Record.WeightKg,
		Separated:     out.Record.Separated,
		PointsAwarded: out.PointsAwarded,
	})
}
