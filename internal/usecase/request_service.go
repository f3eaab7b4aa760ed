package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/points"
	"github.com/ecoreciclaje/collection-core/internal/domain/request"
	"github.com/ecoreciclaje/collection-core/internal/domain/schedule"
	"github.com/ecoreciclaje/collection-core/internal/domain/user"
	"github.com/ecoreciclaje/collection-core/internal/events"
	idgen "github.com/ecoreciclaje/collection-core/internal/platform/id"
	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
	"github.com/ecoreciclaje/collection-core/internal/validation"
)

// CreateRequestInput is the incoming payload for a new collection
// request. RequestedAt is an RFC 3339 timestamp; parsing belongs to the
// validation chain.
type CreateRequestInput struct {
	UserID      string
	Category    string
	Frequency   string
	RequestedAt string
	Address     string
	Note        string
}

// CancelRequestInput cancels a pending or scheduled request.
type CancelRequestInput struct {
	RequestID string
	CallerID  string
	AsAdmin   bool
	Reason    string
}

// CompleteRequestInput processes a pickup and awards points.
type CompleteRequestInput struct {
	RequestID string
	CompanyID string
	WeightKg  *float64
	Separated bool
}

// CompleteRequestOutput reports the persisted outcome of a pickup.
type CompleteRequestOutput struct {
	Request       request.Request
	Record        points.Record
	PointsAwarded int
}

// scheduleProvisioner resolves a locality's pickup schedule, deriving
// and persisting a default weekday when none was configured yet.
type scheduleProvisioner interface {
	EnsureDefault(ctx context.Context, locality string) (schedule.LocalitySchedule, error)
}

type RequestService struct {
	requestRepo request.Repository
	userRepo    user.Repository
	schedules   scheduleProvisioner
	configRepo  points.ConfigRepository
	ledgerRepo  points.LedgerRepository
	bus         *events.Bus

	createChain   *validation.Chain[validation.CreateRequestPayload]
	completeChain *validation.Chain[validation.CompleteRequestPayload]

	idGen  idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewRequestService(
	requestRepo request.Repository,
	userRepo user.Repository,
	schedules scheduleProvisioner,
	configRepo points.ConfigRepository,
	ledgerRepo points.LedgerRepository,
	bus *events.Bus,
	policy validation.Policy,
	idGen idgen.Generator,
	logger *logging.Logger,
) *RequestService {
	if logger == nil {
		logger = logging.Default()
	}

	svc := &RequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		schedules:   schedules,
		configRepo:  configRepo,
		ledgerRepo:  ledgerRepo,
		bus:         bus,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}

	lookups := validation.CreateRequestLookups{
		UserExists: func(ctx context.Context, userID string) (bool, error) {
			_, found, err := userRepo.GetByID(ctx, userID)
			return found, err
		},
		CountSameDay: requestRepo.CountByUserAndDate,
	}
	svc.createChain = validation.CreateRequestChain(policy, lookups, func() time.Time { return svc.now() })
	svc.completeChain = validation.CompleteRequestChain(policy)

	return svc
}

// Create validates the payload, persists the request and, when the
// pickup date can be derived, schedules it in the same call. Organic
// requests follow the locality weekday, provisioning a default schedule
// for localities the admin has not configured yet.
func (s *RequestService) Create(ctx context.Context, input CreateRequestInput) (request.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.Create")
	defer span.End()

	payload := validation.CreateRequestPayload{
		UserID:      strings.TrimSpace(input.UserID),
		Category:    strings.TrimSpace(input.Category),
		Frequency:   strings.TrimSpace(input.Frequency),
		RequestedAt: strings.TrimSpace(input.RequestedAt),
		Address:     strings.TrimSpace(input.Address),
		Note:        strings.TrimSpace(input.Note),
	}

	result, err := s.createChain.Validate(ctx, payload)
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	if !result.Valid() {
		return request.Request{}, newValidationFailed(result)
	}

	category, err := request.ParseCategory(payload.Category)
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	requestedAt, err := time.Parse(time.RFC3339, payload.RequestedAt)
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	account, found, err := s.userRepo.GetByID(ctx, payload.UserID)
	if err != nil {
		return request.Request{}, fmt.Errorf("load user %s: %w", payload.UserID, err)
	}
	if !found {
		return request.Request{}, fmt.Errorf("%w: user %s", ErrNotFound, payload.UserID)
	}

	requestID, err := s.idGen.NewID()
	if err != nil {
		return request.Request{}, fmt.Errorf("generate request id: %w", err)
	}

	now := s.now()
	req := request.Request{
		ID:          requestID,
		UserID:      account.ID,
		Category:    category,
		Frequency:   request.Frequency(payload.Frequency),
		Locality:    account.Locality,
		Address:     payload.Address,
		Note:        payload.Note,
		State:       request.StatePending,
		RequestedAt: requestedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	scheduled, err := s.autoSchedule(ctx, &req, now)
	if err != nil {
		return request.Request{}, err
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return request.Request{}, fmt.Errorf("persist request: %w", err)
	}

	s.publish(ctx, events.TypeRequestCreated, req.UserID, req.ID, map[string]any{
		"category": string(req.Category),
		"state":    string(req.State),
	})
	if scheduled {
		s.publish(ctx, events.TypeRequestScheduled, req.UserID, req.ID, map[string]any{
			"scheduledAt": req.ScheduledAt.Format(time.RFC3339),
		})
	}

	s.logger.InfoContext(ctx, "collection request created",
		"request_id", req.ID,
		"user_id", req.UserID,
		"category", req.Category,
		"state", req.State,
	)
	return req, nil
}

func (s *RequestService) autoSchedule(ctx context.Context, req *request.Request, now time.Time) (bool, error) {
	if req.Category == request.CategoryOrganic {
		localitySchedule, err := s.schedules.EnsureDefault(ctx, req.Locality)
		if errors.Is(err, ErrInvalidInput) {
			// Resident without a locality: created but unscheduled
			// until the account carries one.
			s.logger.WarnContext(ctx, "no locality on account, request stays pending",
				"request_id", req.ID,
				"user_id", req.UserID,
			)
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("ensure locality schedule %q: %w", req.Locality, err)
		}

		at := schedule.NextOrganicDate(now, localitySchedule.Weekday)
		req.ScheduledAt = &at
		return true, req.Transition(request.StateScheduled)
	}

	at, err := schedule.NextFrequencyDate(req.Category, req.Frequency, req.RequestedAt)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	req.ScheduledAt = &at
	return true, req.Transition(request.StateScheduled)
}

// Cancel moves a pending or scheduled request to cancelled and keeps
// the reason on the request note.
func (s *RequestService) Cancel(ctx context.Context, input CancelRequestInput) (request.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.Cancel")
	defer span.End()

	req, found, err := s.requestRepo.GetByID(ctx, strings.TrimSpace(input.RequestID))
	if err != nil {
		return request.Request{}, fmt.Errorf("load request: %w", err)
	}
	if !found {
		return request.Request{}, fmt.Errorf("%w: request %s", ErrNotFound, input.RequestID)
	}
	if !input.AsAdmin && req.UserID != strings.TrimSpace(input.CallerID) {
		return request.Request{}, fmt.Errorf("%w: request belongs to another user", ErrUnauthorized)
	}

	if err := req.Transition(request.StateCancelled); err != nil {
		return request.Request{}, fmt.Errorf("%w: %v", ErrStateTransition, err)
	}

	annotation := "cancelled by requester"
	if reason := strings.TrimSpace(input.Reason); reason != "" {
		annotation = "cancelled: " + reason
	}
	if req.Note != "" {
		req.Note += " | "
	}
	req.Note += annotation
	req.UpdatedAt = s.now()

	if err := s.requestRepo.Update(ctx, req); err != nil {
		return request.Request{}, fmt.Errorf("persist cancellation: %w", err)
	}

	s.publish(ctx, events.TypeRequestCancelled, req.UserID, req.ID, map[string]any{
		"reason": annotation,
	})
	return req, nil
}

// Assign hands a scheduled request to a collection crew.
func (s *RequestService) Assign(ctx context.Context, requestID string) (request.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.Assign")
	defer span.End()

	req, found, err := s.requestRepo.GetByID(ctx, strings.TrimSpace(requestID))
	if err != nil {
		return request.Request{}, fmt.Errorf("load request: %w", err)
	}
	if !found {
		return request.Request{}, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}

	if err := req.Transition(request.StateAssigned); err != nil {
		return request.Request{}, fmt.Errorf("%w: %v", ErrStateTransition, err)
	}
	req.UpdatedAt = s.now()

	if err := s.requestRepo.Update(ctx, req); err != nil {
		return request.Request{}, fmt.Errorf("persist assignment: %w", err)
	}

	s.publish(ctx, events.TypeRequestAssigned, req.UserID, req.ID, nil)
	return req, nil
}

// Complete records the pickup, awards points against the active
// configuration snapshot and closes the request. The award and the
// ledger entry always move together.
func (s *RequestService) Complete(ctx context.Context, input CompleteRequestInput) (CompleteRequestOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.Complete")
	defer span.End()

	result, err := s.completeChain.Validate(ctx, validation.CompleteRequestPayload{
		WeightKg:  input.WeightKg,
		Separated: input.Separated,
	})
	if err != nil {
		return CompleteRequestOutput{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	if !result.Valid() {
		return CompleteRequestOutput{}, newValidationFailed(result)
	}

	req, found, err := s.requestRepo.GetByID(ctx, strings.TrimSpace(input.RequestID))
	if err != nil {
		return CompleteRequestOutput{}, fmt.Errorf("load request: %w", err)
	}
	if !found {
		return CompleteRequestOutput{}, fmt.Errorf("%w: request %s", ErrNotFound, input.RequestID)
	}

	if err := req.Transition(request.StateCompleted); err != nil {
		return CompleteRequestOutput{}, fmt.Errorf("%w: %v", ErrStateTransition, err)
	}

	cfg, active, err := s.configRepo.GetActive(ctx)
	if err != nil {
		return CompleteRequestOutput{}, fmt.Errorf("load active points config: %w", err)
	}
	if !active {
		cfg = points.FallbackConfig()
	}

	weight := *input.WeightKg
	awarded := points.Award(cfg, weight, input.Separated)
	now := s.now()

	recordID, err := s.idGen.NewID()
	if err != nil {
		return CompleteRequestOutput{}, fmt.Errorf("generate record id: %w", err)
	}
	entryID, err := s.idGen.NewID()
	if err != nil {
		return CompleteRequestOutput{}, fmt.Errorf("generate ledger entry id: %w", err)
	}

	rec := points.Record{
		ID:          recordID,
		RequestID:   req.ID,
		CompanyID:   strings.TrimSpace(input.CompanyID),
		WeightKg:    weight,
		Separated:   input.Separated,
		Points:      awarded,
		CollectedAt: now,
	}
	if err := s.ledgerRepo.CreateRecord(ctx, rec); err != nil {
		return CompleteRequestOutput{}, fmt.Errorf("persist collection record: %w", err)
	}

	// The request reaches COMPLETED before the ledger entry lands so a
	// retry after a partial fault trips on the state transition instead
	// of awarding twice.
	req.RecordID = recordID
	req.UpdatedAt = now
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return CompleteRequestOutput{}, fmt.Errorf("persist completion: %w", err)
	}

	reason := points.CollectionReason(weight, req.Category)
	if err := s.ledgerRepo.AppendEntry(ctx, points.LedgerEntry{
		ID:        entryID,
		UserID:    req.UserID,
		RecordID:  recordID,
		Points:    awarded,
		Reason:    reason,
		CreatedAt: now,
	}); err != nil {
		return CompleteRequestOutput{}, fmt.Errorf("append ledger entry: %w", err)
	}

	s.publish(ctx, events.TypeRequestCompleted, req.UserID, req.ID, map[string]any{
		"weightKg": weight,
		"points":   awarded,
	})
	s.publish(ctx, events.TypePointsAwarded, req.UserID, recordID, map[string]any{
		"points": awarded,
		"reason": reason,
	})

	s.logger.InfoContext(ctx, "collection completed",
		"request_id", req.ID,
		"record_id", recordID,
		"weight_kg", weight,
		"points", awarded,
	)
	return CompleteRequestOutput{
		Request:       req,
		Record:        rec,
		PointsAwarded: awarded,
	}, nil
}

// Get returns a request enforcing ownership for non-admin callers.
func (s *RequestService) Get(ctx context.Context, requestID, callerID string, asAdmin bool) (request.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.Get")
	defer span.End()

	req, found, err := s.requestRepo.GetByID(ctx, strings.TrimSpace(requestID))
	if err != nil {
		return request.Request{}, fmt.Errorf("load request: %w", err)
	}
	if !found {
		return request.Request{}, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}
	if !asAdmin && req.UserID != strings.TrimSpace(callerID) {
		return request.Request{}, fmt.Errorf("%w: request belongs to another user", ErrUnauthorized)
	}
	return req, nil
}

// ListByUser returns the caller's requests, newest first.
func (s *RequestService) ListByUser(ctx context.Context, userID string, filter request.ListFilter) ([]request.Request, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RequestService.ListByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	items, err := s.requestRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return items, nil
}

func (s *RequestService) publish(ctx context.Context, eventType events.Type, userID, entityID string, payload map[string]any) {
	eventID, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "skip event, id generation failed", "event_type", eventType, "error", err)
		return
	}
	s.bus.Publish(ctx, events.Event{
		ID:         eventID,
		Type:       eventType,
		OccurredAt: s.now(),
		UserID:     userID,
		EntityID:   entityID,
		Payload:    payload,
	})
}
