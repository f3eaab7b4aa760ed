package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/ecoreciclaje/collection-core/internal/events"
	"github.com/ecoreciclaje/collection-core/internal/usecase"
)

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSchedules")
	defer span.End()

	items, err := h.scheduleService.List(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]scheduleDTO, 0, len(items))
	for _, item := range items {
		out = append(out, scheduleToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) PutSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutSchedule")
	defer span.End()

	var req localitySchedulePayload
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

	configured, err := h.scheduleService.SetLocalitySchedule(ctx, usecase.SetLocalityScheduleInput{
		Locality: req.Locality,
		Weekday:  strings.ToUpper(strings.TrimSpace(req.Weekday)),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set locality schedule failed", "locality", req.Locality, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scheduleToDTO(configured))
}

func (h *Handler) ListPointsConfigs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPointsConfigs")
	defer span.End()

	configs, err := h.pointsService.ListConfigurations(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]pointsConfigDTO, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, pointsConfigToDTO(cfg))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CreatePointsConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePointsConfig")
	defer span.End()

	var req pointsConfigPayload
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

	created, err := h.pointsService.CreateConfiguration(ctx, usecase.CreateConfigInput{
		Description:      req.Description,
		BasePoints:       req.BasePoints,
		WeightFactor:     req.WeightFactor,
		SeparationFactor: req.SeparationFactor,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create points config failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, pointsConfigToDTO(created))
}

func (h *Handler) ActivatePointsConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivatePointsConfig")
	defer span.End()

	activated, err := h.pointsService.ActivateConfiguration(ctx, r.PathValue("configID"))
	if err != nil {
		h.logger.WarnContext(ctx, "activate points config failed", "config_id", r.PathValue("configID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pointsConfigToDTO(activated))
}

func (h *Handler) DeletePointsConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePointsConfig")
	defer span.End()

	if err := h.pointsService.DeleteConfiguration(ctx, r.PathValue("configID")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) GrantBonus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GrantBonus")
	defer span.End()

	var req adjustmentPayload
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

	entry, err := h.pointsService.GrantBonus(ctx, usecase.AdjustmentInput{
		UserID: req.UserID,
		Points: req.Points,
		Reason: req.Reason,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, entry)
}

func (h *Handler) ApplyPenalty(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyPenalty")
	defer span.End()

	var req adjustmentPayload
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

	entry, err := h.pointsService.ApplyPenalty(ctx, usecase.AdjustmentInput{
		UserID: req.UserID,
		Points: req.Points,
		Reason: req.Reason,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, entry)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEvents")
	defer span.End()

	var eventType events.Type
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		eventType = events.Type(raw)
	}

	limit := 0
	if rawLimit := strings.TrimSpace(r.URL.Query().Get("limit")); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	writeSuccess(ctx, w, http.StatusOK, eventsToDTO(h.bus.History(eventType, limit)))
}
