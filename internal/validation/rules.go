package validation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/request"
	"github.com/ecoreciclaje/collection-core/internal/domain/schedule"
)

// Policy holds the tunable bounds applied by the request chains. It is
// an immutable snapshot injected at construction time.
type Policy struct {
	WindowStartHour  int
	WindowEndHour    int
	MinLead          time.Duration
	MaxDailyRequests int
	AddressMinLen    int
	AddressMaxLen    int
	NoteMaxLen       int
	MaxWeightKg      float64
}

func DefaultPolicy() Policy {
	return Policy{
		WindowStartHour:  6,
		WindowEndHour:    18,
		MinLead:          24 * time.Hour,
		MaxDailyRequests: 3,
		AddressMinLen:    10,
		AddressMaxLen:    200,
		NoteMaxLen:       500,
		MaxWeightKg:      1000,
	}
}

// CreateRequestPayload is the chain input for creating a collection
// request. RequestedAt stays raw so date parsing is a chain concern.
type CreateRequestPayload struct {
	UserID      string
	Category    string
	Frequency   string
	RequestedAt string
	Address     string
	Note        string
}

func (p CreateRequestPayload) requestedTime() (time.Time, bool) {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(p.RequestedAt))
	return parsed, err == nil
}

// CreateRequestLookups are the persistence probes the chain depends on.
type CreateRequestLookups struct {
	UserExists   func(ctx context.Context, userID string) (bool, error)
	CountSameDay func(ctx context.Context, userID string, day time.Time) (int, error)
}

// CreateRequestChain builds the ordered stages for request creation:
// required fields, enum membership, string lengths, the date window,
// user existence, and the per-day request limit.
func CreateRequestChain(policy Policy, lookups CreateRequestLookups, now func() time.Time) *Chain[CreateRequestPayload] {
	if now == nil {
		now = time.Now
	}

	return NewChain(
		createRequiredFields,
		createEnumFields,
		createStringLengths(policy),
		createDateWindow(policy, now),
		createUserExists(lookups.UserExists),
		createDailyLimit(policy, lookups.CountSameDay),
	)
}

func createRequiredFields(_ context.Context, p CreateRequestPayload) ([]Error, error) {
	var out []Error
	if strings.TrimSpace(p.UserID) == "" {
		out = append(out, required("userId"))
	}
	if strings.TrimSpace(p.Category) == "" {
		out = append(out, required("category"))
	}
	if strings.TrimSpace(p.RequestedAt) == "" {
		out = append(out, required("requestedDate"))
	}
	if strings.TrimSpace(p.Address) == "" {
		out = append(out, required("address"))
	}
	return out, nil
}

func createEnumFields(_ context.Context, p CreateRequestPayload) ([]Error, error) {
	raw := strings.TrimSpace(p.Category)
	if raw == "" {
		return nil, nil
	}

	category, err := request.ParseCategory(raw)
	if err != nil {
		return []Error{{
			Field:   "category",
			Code:    CodeInvalidResidueType,
			Message: fmt.Sprintf("unknown waste category %q", raw),
		}}, nil
	}

	freq := strings.TrimSpace(p.Frequency)
	if category == request.CategoryOrganic {
		return nil, nil
	}
	if freq == "" {
		return []Error{required("frequency")}, nil
	}
	if !request.ValidFrequency(category, request.Frequency(freq)) {
		return []Error{{
			Field:   "frequency",
			Code:    CodeInvalidType,
			Message: fmt.Sprintf("frequency %q is not valid for category %s", freq, category),
		}}, nil
	}
	return nil, nil
}

func createStringLengths(policy Policy) Rule[CreateRequestPayload] {
	return func(_ context.Context, p CreateRequestPayload) ([]Error, error) {
		var out []Error

		address := strings.TrimSpace(p.Address)
		if address != "" {
			if len(address) < policy.AddressMinLen {
				out = append(out, Error{
					Field:   "address",
					Code:    CodeStringTooShort,
					Message: fmt.Sprintf("address must be at least %d characters", policy.AddressMinLen),
				})
			}
			if len(address) > policy.AddressMaxLen {
				out = append(out, Error{
					Field:   "address",
					Code:    CodeStringTooLong,
					Message: fmt.Sprintf("address must be at most %d characters", policy.AddressMaxLen),
				})
			}
		}

		if len(p.Note) > policy.NoteMaxLen {
			out = append(out, Error{
				Field:   "note",
				Code:    CodeStringTooLong,
				Message: fmt.Sprintf("note must be at most %d characters", policy.NoteMaxLen),
			})
		}
		return out, nil
	}
}

func createDateWindow(policy Policy, now func() time.Time) Rule[CreateRequestPayload] {
	return func(_ context.Context, p CreateRequestPayload) ([]Error, error) {
		raw := strings.TrimSpace(p.RequestedAt)
		if raw == "" {
			return nil, nil
		}

		requested, ok := p.requestedTime()
		if !ok {
			return []Error{{
				Field:   "requestedDate",
				Code:    CodeInvalidDate,
				Message: fmt.Sprintf("requested date %q is not a valid RFC 3339 timestamp", raw),
			}}, nil
		}

		var out []Error
		current := now()
		if !requested.After(current) {
			out = append(out, Error{
				Field:   "requestedDate",
				Code:    CodeDateNotFuture,
				Message: "requested date must be in the future",
			})
		} else if requested.Before(current.Add(policy.MinLead)) {
			out = append(out, Error{
				Field:   "requestedDate",
				Code:    CodeDateTooEarly,
				Message: fmt.Sprintf("requests need at least %s of lead time", policy.MinLead),
			})
		}

		if !schedule.BusinessDay(requested.Weekday()) {
			out = append(out, Error{
				Field:   "requestedDate",
				Code:    CodeInvalidWeekday,
				Message: "pickups run Monday through Friday only",
			})
		}

		hour := requested.Hour()
		if hour < policy.WindowStartHour || hour >= policy.WindowEndHour {
			out = append(out, Error{
				Field:   "requestedDate",
				Code:    CodeInvalidTimeSlot,
				Message: fmt.Sprintf("pickups run between %02d:00 and %02d:00", policy.WindowStartHour, policy.WindowEndHour),
			})
		}
		return out, nil
	}
}

func createUserExists(lookup func(ctx context.Context, userID string) (bool, error)) Rule[CreateRequestPayload] {
	return func(ctx context.Context, p CreateRequestPayload) ([]Error, error) {
		userID := strings.TrimSpace(p.UserID)
		if userID == "" || lookup == nil {
			return nil, nil
		}

		exists, err := lookup(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("probe user %s: %w", userID, err)
		}
		if !exists {
			return []Error{{
				Field:   "userId",
				Code:    CodeUserNotFound,
				Message: fmt.Sprintf("user %s does not exist", userID),
			}}, nil
		}
		return nil, nil
	}
}

func createDailyLimit(policy Policy, lookup func(ctx context.Context, userID string, day time.Time) (int, error)) Rule[CreateRequestPayload] {
	return func(ctx context.Context, p CreateRequestPayload) ([]Error, error) {
		userID := strings.TrimSpace(p.UserID)
		requested, ok := p.requestedTime()
		if userID == "" || !ok || lookup == nil {
			return nil, nil
		}

		count, err := lookup(ctx, userID, requested)
		if err != nil {
			return nil, fmt.Errorf("count same-day requests for user %s: %w", userID, err)
		}
		if count >= policy.MaxDailyRequests {
			return []Error{{
				Field:   "requestedDate",
				Code:    CodeDailyLimitExceeded,
				Message: fmt.Sprintf("at most %d requests per day are allowed", policy.MaxDailyRequests),
			}}, nil
		}
		return nil, nil
	}
}

// CompleteRequestPayload is the chain input for processing a pickup.
type CompleteRequestPayload struct {
	WeightKg  *float64
	Separated bool
}

func CompleteRequestChain(policy Policy) *Chain[CompleteRequestPayload] {
	return NewChain(
		func(_ context.Context, p CompleteRequestPayload) ([]Error, error) {
			if p.WeightKg == nil {
				return []Error{required("weightKg")}, nil
			}
			return nil, nil
		},
		func(_ context.Context, p CompleteRequestPayload) ([]Error, error) {
			if p.WeightKg == nil {
				return nil, nil
			}
			if *p.WeightKg <= 0 {
				return []Error{{
					Field:   "weightKg",
					Code:    CodeValueTooLow,
					Message: "weight must be greater than zero",
				}}, nil
			}
			if *p.WeightKg > policy.MaxWeightKg {
				return []Error{{
					Field:   "weightKg",
					Code:    CodeValueTooHigh,
					Message: fmt.Sprintf("weight must be at most %gkg", policy.MaxWeightKg),
				}}, nil
			}
			return nil, nil
		},
	)
}

// LocalitySchedulePayload is the chain input for the admin upsert.
type LocalitySchedulePayload struct {
	Locality string
	Weekday  string
}

func LocalityScheduleChain() *Chain[LocalitySchedulePayload] {
	return NewChain(
		func(_ context.Context, p LocalitySchedulePayload) ([]Error, error) {
			var out []Error
			if strings.TrimSpace(p.Locality) == "" {
				out = append(out, required("locality"))
			}
			if strings.TrimSpace(p.Weekday) == "" {
				out = append(out, required("weekday"))
			}
			return out, nil
		},
		func(_ context.Context, p LocalitySchedulePayload) ([]Error, error) {
			raw := strings.TrimSpace(p.Weekday)
			if raw == "" {
				return nil, nil
			}
			day, err := schedule.ParseWeekday(raw)
			if err != nil || !schedule.BusinessDay(day) {
				return []Error{{
					Field:   "weekday",
					Code:    CodeInvalidWeekday,
					Message: fmt.Sprintf("weekday %q must be a business day Monday through Friday", raw),
				}}, nil
			}
			return nil, nil
		},
	)
}

// PointsConfigPayload is the chain input for creating and activating a
// points configuration.
type PointsConfigPayload struct {
	Description      string
	BasePoints       float64
	WeightFactor     float64
	SeparationFactor float64
}

// PointsConfigChain validates parameter bounds and keeps descriptions
// unique across configurations. A failing uniqueness probe is an
// infrastructure fault, never a validation verdict.
func PointsConfigChain(descriptionTaken func(ctx context.Context, description string) (bool, error)) *Chain[PointsConfigPayload] {
	return NewChain(
		func(_ context.Context, p PointsConfigPayload) ([]Error, error) {
			var out []Error
			if strings.TrimSpace(p.Description) == "" {
				out = append(out, required("description"))
			}
			if len(p.Description) > 200 {
				out = append(out, Error{
					Field:   "description",
					Code:    CodeStringTooLong,
					Message: "description must be at most 200 characters",
				})
			}
			return out, nil
		},
		func(_ context.Context, p PointsConfigPayload) ([]Error, error) {
			var out []Error
			if p.BasePoints <= 0 {
				out = append(out, Error{
					Field:   "basePoints",
					Code:    CodeValueTooLow,
					Message: "base points must be greater than zero",
				})
			}
			if p.WeightFactor < 0 {
				out = append(out, Error{
					Field:   "weightFactor",
					Code:    CodeValueTooLow,
					Message: "weight factor cannot be negative",
				})
			}
			if p.SeparationFactor < 0 {
				out = append(out, Error{
					Field:   "separationFactor",
					Code:    CodeValueTooLow,
					Message: "separation factor cannot be negative",
				})
			}
			return out, nil
		},
		func(ctx context.Context, p PointsConfigPayload) ([]Error, error) {
			description := strings.TrimSpace(p.Description)
			if description == "" || descriptionTaken == nil {
				return nil, nil
			}
			taken, err := descriptionTaken(ctx, description)
			if err != nil {
				return nil, fmt.Errorf("probe config description: %w", err)
			}
			if taken {
				return []Error{{
					Field:   "description",
					Code:    CodeValueNotUnique,
					Message: fmt.Sprintf("a configuration named %q already exists", description),
				}}, nil
			}
			return nil, nil
		},
	)
}

func required(field string) Error {
	return Error{
		Field:   field,
		Code:    CodeFieldRequired,
		Message: field + " is required",
	}
}
