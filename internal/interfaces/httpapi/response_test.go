package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/futplan/internal/usecase"
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

func TestWriteError_MapsTaxonomy(t *testing.T) {
	cases := []struct {
		err        error
		wantCode   int
		wantStatus string
	}{
		{fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{fmt.Errorf("%w: match=m-1", usecase.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: duplicate", usecase.ErrConflict), http.StatusBadRequest, "ALREADY_EXISTS"},
		{fmt.Errorf("%w: not owner", usecase.ErrForbidden), http.StatusForbidden, "PERMISSION_DENIED"},
		{fmt.Errorf("%w: finished", usecase.ErrInvalidState), http.StatusBadRequest, "FAILED_PRECONDITION"},
		{fmt.Errorf("%w: match=m-1", usecase.ErrMatchClosed), http.StatusForbidden, "FAILED_PRECONDITION"},
		{fmt.Errorf("%w: too early", usecase.ErrPrecondition), http.StatusBadRequest, "FAILED_PRECONDITION"},
		{fmt.Errorf("%w: no token", usecase.ErrUnauthorized), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{fmt.Errorf("%w: anubis down", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable, "UNAVAILABLE"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(context.Background(), rec, tc.err)

		if rec.Code != tc.wantCode {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.wantCode, rec.Code)
		}
		var body envelope[any]
		if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal response body: %v", err)
		}
		if body.Error == nil || body.Error.Status != tc.wantStatus || body.Error.Code != tc.wantCode {
			t.Fatalf("%v: unexpected error body %+v", tc.err, body.Error)
		}
	}
}

func TestWriteError_HidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, crerr.WithDetail(errors.New("pq: password authentication failed"), "secret"))

	var body envelope[any]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Error.Message != internalErrorMsg || len(body.Error.Errors) != 1 {
		t.Fatalf("internal error leaked: %+v", body.Error)
	}
}

func TestWriteError_FlattensDetails(t *testing.T) {
	err := crerr.WithDetail(fmt.Errorf("%w: too early", usecase.ErrPrecondition), "scheduled_at=2026-05-09T19:00:00Z")

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, err)

	var body envelope[any]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	items := body.Error.Errors
	if len(items) != 2 || items[1].Reason != "detail" || items[1].Message != "scheduled_at=2026-05-09T19:00:00Z" {
		t.Fatalf("unexpected error items: %+v", items)
	}
}
