package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ecoreciclaje/collection-core/internal/domain/points"
	"github.com/ecoreciclaje/collection-core/internal/domain/request"
	"github.com/ecoreciclaje/collection-core/internal/domain/schedule"
	"github.com/ecoreciclaje/collection-core/internal/events"
	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
	"github.com/ecoreciclaje/collection-core/internal/usecase"
)

type Handler struct {
	requestService  *usecase.RequestService
	scheduleService *usecase.ScheduleService
	pointsService   *usecase.PointsService
	bus             *events.Bus
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	requestService *usecase.RequestService,
	scheduleService *usecase.ScheduleService,
	pointsService *usecase.PointsService,
	bus *events.Bus,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		requestService:  requestService,
		scheduleService: scheduleService,
		pointsService:   pointsService,
		bus:             bus,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type createRequestPayload struct {
	Category      string `json:"category" validate:"required"`
	Frequency     string `json:"frequency" validate:"omitempty,max=20"`
	RequestedDate string `json:"requestedDate" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Note          string `json:"note" validate:"omitempty,max=500"`
}

type cancelRequestPayload struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type completeRequestPayload struct {
	WeightKg  *float64 `json:"weightKg" validate:"required"`
	Separated bool     `json:"separated"`
}

type estimatePayload struct {
	Category    string  `json:"category" validate:"required"`
	QuantityKg  float64 `json:"quantityKg" validate:"required,gt=0"`
	Material    string  `json:"material" validate:"omitempty,max=50"`
	Critical    bool    `json:"critical"`
	HighQuality bool    `json:"highQuality"`
	FirstTime   bool    `json:"firstTime"`
	Recurring   bool    `json:"recurring"`
}

type localitySchedulePayload struct {
	Locality string `json:"locality" validate:"required,max=100"`
	Weekday  string `json:"weekday" validate:"required"`
}

type pointsConfigPayload struct {
	Description      string  `json:"description" validate:"required,max=200"`
	BasePoints       float64 `json:"basePoints" validate:"required,gt=0"`
	WeightFactor     float64 `json:"weightFactor" validate:"gte=0"`
	SeparationFactor float64 `json:"separationFactor" validate:"gte=0"`
}

type adjustmentPayload struct {
	UserID string `json:"userId" validate:"required"`
	Points int    `json:"points" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

type requestDTO struct {
	ID            string  `json:"id"`
	UserID        string  `json:"userId"`
	Category      string  `json:"category"`
	Frequency     string  `json:"frequency,omitempty"`
	Locality      string  `json:"locality"`
	Address       string  `json:"address"`
	Note          string  `json:"note,omitempty"`
	State         string  `json:"state"`
	RequestedDate string  `json:"requestedDate"`
	ScheduledDate *string `json:"scheduledDate,omitempty"`
	RecordID      string  `json:"recordId,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func requestToDTO(req request.Request) requestDTO {
	dto := requestDTO{
		ID:            req.ID,
		UserID:        req.UserID,
		Category:      string(req.Category),
		Frequency:     string(req.Frequency),
		Locality:      req.Locality,
		Address:       req.Address,
		Note:          req.Note,
		State:         string(req.State),
		RequestedDate: req.RequestedAt.Format(time.RFC3339),
		RecordID:      req.RecordID,
		CreatedAt:     req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     req.UpdatedAt.Format(time.RFC3339),
	}
	if req.ScheduledAt != nil {
		scheduled := req.ScheduledAt.Format(time.RFC3339)
		dto.ScheduledDate = &scheduled
	}
	return dto
}

func requestsToDTO(reqs []request.Request) []requestDTO {
	out := make([]requestDTO, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, requestToDTO(req))
	}
	return out
}

type completionDTO struct {
	Request       requestDTO `json:"request"`
	RecordID      string     `json:"recordId"`
	WeightKg      float64    `json:"weightKg"`
	Separated     bool       `json:"separated"`
	PointsAwarded int        `json:"pointsAwarded"`
}

type scheduleDTO struct {
	ID       string `json:"id"`
	Locality string `json:"locality"`
	Weekday  string `json:"weekday"`
}

func scheduleToDTO(s schedule.LocalitySchedule) scheduleDTO {
	return scheduleDTO{
		ID:       s.ID,
		Locality: s.Locality,
		Weekday:  schedule.WeekdayName(s.Weekday),
	}
}

type pointsConfigDTO struct {
	ID               string  `json:"id"`
	Description      string  `json:"description"`
	BasePoints       float64 `json:"basePoints"`
	WeightFactor     float64 `json:"weightFactor"`
	SeparationFactor float64 `json:"separationFactor"`
	Active           bool    `json:"active"`
}

func pointsConfigToDTO(cfg points.Config) pointsConfigDTO {
	return pointsConfigDTO{
		ID:               cfg.ID,
		Description:      cfg.Description,
		BasePoints:       cfg.BasePoints,
		WeightFactor:     cfg.WeightFactor,
		SeparationFactor: cfg.SeparationFactor,
		Active:           cfg.Active,
	}
}

type ledgerEntryDTO struct {
	ID        string `json:"id"`
	RecordID  string `json:"recordId,omitempty"`
	Points    int    `json:"points"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"createdAt"`
}

type pointsSummaryDTO struct {
	UserID  string           `json:"userId"`
	Total   int              `json:"total"`
	Entries []ledgerEntryDTO `json:"entries"`
}

func pointsSummaryToDTO(summary usecase.PointsSummary) pointsSummaryDTO {
	entries := make([]ledgerEntryDTO, 0, len(summary.Entries))
	for _, entry := range summary.Entries {
		entries = append(entries, ledgerEntryDTO{
			ID:        entry.ID,
			RecordID:  entry.RecordID,
			Points:    entry.Points,
			Reason:    entry.Reason,
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}
	return pointsSummaryDTO{
		UserID:  summary.UserID,
		Total:   summary.Total,
		Entries: entries,
	}
}

type eventDTO struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt string         `json:"occurredAt"`
	UserID     string         `json:"userId,omitempty"`
	EntityID   string         `json:"entityId,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}

func eventsToDTO(items []events.Event) []eventDTO {
	out := make([]eventDTO, 0, len(items))
	for _, evt := range items {
		out = append(out, eventDTO{
			ID:         evt.ID,
			Type:       string(evt.Type),
			OccurredAt: evt.OccurredAt.Format(time.RFC3339),
			UserID:     evt.UserID,
			EntityID:   evt.EntityID,
			Payload:    evt.Payload,
		})
	}
	return out
}
