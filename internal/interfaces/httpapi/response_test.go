package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/ecoreciclaje/collection-core/internal/usecase"
	"github.com/ecoreciclaje/collection-core/internal/validation"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestWriteError_ValidationFindingsPerField(t *testing.T) {
	rec := httptest.NewRecorder()
	err := &usecase.ValidationFailedError{Findings: []validation.Error{
		{Field: "category", Code: validation.CodeFieldRequired, Message: "category is required"},
		{Field: "requestedDate", Code: validation.CodeDateNotFuture, Message: "requested date must be in the future"},
	}}
	writeError(context.Background(), rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body struct {
		Error struct {
			Errors []struct {
				Reason   string `json:"reason"`
				Location string `json:"location"`
			} `json:"errors"`
		} `json:"error"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if len(body.Error.Errors) != 2 {
		t.Fatalf("expected 2 error items, got %d", len(body.Error.Errors))
	}
	if body.Error.Errors[0].Reason != validation.CodeFieldRequired || body.Error.Errors[0].Location != "category" {
		t.Fatalf("unexpected first item: %+v", body.Error.Errors[0])
	}
	if body.Error.Errors[1].Reason != validation.CodeDateNotFuture || body.Error.Errors[1].Location != "requestedDate" {
		t.Fatalf("unexpected second item: %+v", body.Error.Errors[1])
	}
}

func TestMapError_ConflictStatuses(t *testing.T) {
	if got := mapError(context.Background(), fmt.Errorf("%w: no", usecase.ErrStateTransition)); got.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409 for state transition errors, got %d", got.HTTPStatus)
	}
	if got := mapError(context.Background(), fmt.Errorf("%w: active", usecase.ErrConfigConflict)); got.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected 409 for config conflicts, got %d", got.HTTPStatus)
	}
	if got := mapError(context.Background(), fmt.Errorf("%w: down", usecase.ErrDependencyUnavailable)); got.HTTPStatus != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for dependency errors, got %d", got.HTTPStatus)
	}
}
