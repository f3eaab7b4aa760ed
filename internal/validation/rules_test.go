package validation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fixedNow() time.Time {
	// Wednesday morning.
	return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
}

func validCreatePayload() CreateRequestPayload {
	return CreateRequestPayload{
		UserID:      "user-1",
		Category:    "ORGANIC",
		RequestedAt: "2024-01-12T10:00:00Z", // Friday inside the window
		Address:     "Calle 45 #12-34, Bogota",
	}
}

func passingLookups() CreateRequestLookups {
	return CreateRequestLookups{
		UserExists: func(context.Context, string) (bool, error) {
			return true, nil
		},
		CountSameDay: func(context.Context, string, time.Time) (int, error) {
			return 0, nil
		},
	}
}

func TestCreateRequestChain_ValidPayload(t *testing.T) {
	chain := CreateRequestChain(DefaultPolicy(), passingLookups(), fixedNow)

	result, err := chain.Validate(t.Context(), validCreatePayload())
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if !result.Valid() {
		t.Fatalf("expected valid payload, got %+v", result.Errors)
	}
}

func TestCreateRequestChain_MissingCategory(t *testing.T) {
	chain := CreateRequestChain(DefaultPolicy(), passingLookups(), fixedNow)

	payload := validCreatePayload()
	payload.Category = ""

	result, err := chain.Validate(t.Context(), payload)
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %+v", result.Errors)
	}
	if result.Errors[0].Field != "category" || result.Errors[0].Code != CodeFieldRequired {
		t.Fatalf("expected category/FIELD_REQUIRED, got %+v", result.Errors[0])
	}
}

func TestCreateRequestChain_AllStagesAccumulate(t *testing.T) {
	chain := CreateRequestChain(DefaultPolicy(), passingLookups(), fixedNow)

	payload := validCreatePayload()
	payload.Address = "too short"                    // 9 chars
	payload.RequestedAt = "2024-01-13T20:00:00Z"     // Saturday, outside hours
	payload.Category = "INORGANIC"                   // now frequency is required
	payload.Note = string(make([]byte, 501))

	result, err := chain.Validate(t.Context(), payload)
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}

	wantCodes := map[string]bool{
		CodeStringTooShort:  false,
		CodeStringTooLong:   false,
		CodeInvalidWeekday:  false,
		CodeInvalidTimeSlot: false,
		CodeFieldRequired:   false, // frequency
	}
	for _, item := range result.Errors {
		if _, ok := wantCodes[item.Code]; ok {
			wantCodes[item.Code] = true
		}
	}
	for code, seen := range wantCodes {
		if !seen {
			t.Fatalf("expected code %s in %+v", code, result.Errors)
		}
	}
}

func TestCreateRequestChain_DateRules(t *testing.T) {
	chain := CreateRequestChain(DefaultPolicy(), passingLookups(), fixedNow)

	cases := []struct {
		name string
		date string
		code string
	}{
		{"garbage date", "not-a-date", CodeInvalidDate},
		{"past date", "2024-01-08T10:00:00Z", CodeDateNotFuture},
		{"inside lead time", "2024-01-10T15:00:00Z", CodeDateTooEarly},
	}

	for _, tc := range cases {
		payload := validCreatePayload()
		payload.RequestedAt = tc.date

		result, err := chain.Validate(t.Context(), payload)
		if err != nil {
			t.Fatalf("%s: chain failed: %v", tc.name, err)
		}

		found := false
		for _, item := range result.Errors {
			if item.Code == tc.code && item.Field == "requestedDate" {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s: expected code %s, got %+v", tc.name, tc.code, result.Errors)
		}
	}
}

func TestCreateRequestChain_DailyLimit(t *testing.T) {
	lookups := passingLookups()
	lookups.CountSameDay = func(context.Context, string, time.Time) (int, error) {
		return 3, nil
	}
	chain := CreateRequestChain(DefaultPolicy(), lookups, fixedNow)

	result, err := chain.Validate(t.Context(), validCreatePayload())
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0].Code != CodeDailyLimitExceeded {
		t.Fatalf("expected DAILY_LIMIT_EXCEEDED, got %+v", result.Errors)
	}
}

func TestCreateRequestChain_UnknownUser(t *testing.T) {
	lookups := passingLookups()
	lookups.UserExists = func(context.Context, string) (bool, error) {
		return false, nil
	}
	chain := CreateRequestChain(DefaultPolicy(), lookups, fixedNow)

	result, err := chain.Validate(t.Context(), validCreatePayload())
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0].Code != CodeUserNotFound {
		t.Fatalf("expected USER_NOT_FOUND, got %+v", result.Errors)
	}
}

func TestCreateRequestChain_LookupFailureIsInfrastructureFault(t *testing.T) {
	lookups := passingLookups()
	lookups.UserExists = func(context.Context, string) (bool, error) {
		return false, fmt.Errorf("connection refused")
	}
	chain := CreateRequestChain(DefaultPolicy(), lookups, fixedNow)

	_, err := chain.Validate(t.Context(), validCreatePayload())
	if !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}
}

func TestCompleteRequestChain(t *testing.T) {
	chain := CompleteRequestChain(DefaultPolicy())

	result, err := chain.Validate(t.Context(), CompleteRequestPayload{})
	if err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if len(result.Errors) != 1 || result.Errors[0].Code != CodeFieldRequired {
		t.Fatalf("expected FIELD_REQUIRED for weight, got %+v", result.Errors)
	}

	zero := 0.0
	result, _ = chain.Validate(t.Context(), CompleteRequestPayload{WeightKg: &zero})
	if len(result.Errors) != 1 || result.Errors[0].Code != CodeValueTooLow {
		t.Fatalf("expected VALUE_TOO_LOW, got %+v", result.Errors)
	}

	heavy := 1000.5
	result, _ = chain.Validate(t.Context(), CompleteRequestPayload{WeightKg: &heavy})
	if len(result.Errors) != 1 || result.Errors[0].Code != CodeValueTooHigh {
		t.Fatalf("expected VALUE_TOO_HIGH, got %+v", result.Errors)
	}

	ok := 5.0
	result, _ = chain.Validate(t.Context(), CompleteRequestPayload{WeightKg: &ok, Separated: true})
	if !result.Valid() {
		t.Fatalf("expected valid weight, got %+v", result.Errors)
	}
}

func TestLocalityScheduleChain(t *testing.T) {
	chain := LocalityScheduleChain()

	result, _ := chain.Validate(t.Context(), LocalitySchedulePayload{Locality: "Centro", Weekday: "MONDAY"})
	if !result.Valid() {
		t.Fatalf("expected valid schedule, got %+v", result.Errors)
	}

	result, _ = chain.Validate(t.Context(), LocalitySchedulePayload{Locality: "Centro", Weekday: "SUNDAY"})
	if len(result.Errors) != 1 || result.Errors[0].Code != CodeInvalidWeekday {
		t.Fatalf("expected INVALID_WEEKDAY for Sunday, got %+v", result.Errors)
	}
}

func TestPointsConfigChain(t *testing.T) {
	taken := func(_ context.Context, description string) (bool, error) {
		return description == "existing", nil
	}
	chain := PointsConfigChain(taken)

	result, _ := chain.Validate(t.Context(), PointsConfigPayload{
		Description:  "seasonal uplift",
		BasePoints:   12,
		WeightFactor: 2.5,
	})
	if !result.Valid() {
		t.Fatalf("expected valid config, got %+v", result.Errors)
	}

	result, _ = chain.Validate(t.Context(), PointsConfigPayload{Description: "existing", BasePoints: 10})
	if len(result.Errors) != 1 || result.Errors[0].Code != CodeValueNotUnique {
		t.Fatalf("expected VALUE_NOT_UNIQUE, got %+v", result.Errors)
	}

	result, _ = chain.Validate(t.Context(), PointsConfigPayload{Description: "bad", BasePoints: 0, WeightFactor: -1})
	lowCount := 0
	for _, item := range result.Errors {
		if item.Code == CodeValueTooLow {
			lowCount++
		}
	}
	if lowCount != 2 {
		t.Fatalf("expected two VALUE_TOO_LOW errors, got %+v", result.Errors)
	}
}
