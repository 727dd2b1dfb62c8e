package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"roundup/internal/bank/sandbox"
	"roundup/internal/controller"
	"roundup/internal/core"
	"roundup/internal/services"
)

var testNow = time.Date(2022, time.May, 4, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *sandbox.Store) {
	t.Helper()

	store := sandbox.NewSeeded(testNow, 4)
	resolver := services.NewAccountResolver(store)
	transactions := services.NewTransactionService(resolver, store)
	goals := services.NewGoalOrchestrator(store, nil)
	roundUp := services.NewRoundUpService(resolver, goals)
	ctrl := controller.New(transactions, roundUp, testNow, 4)

	return NewServer(":0", ctrl, resolver, 16, time.Minute), store
}

func doRequest(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestReadyz(t *testing.T) {
	s, store := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/readyz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	store.FailWith("accounts", errors.New("gateway down"))
	// The resolver caches the primary account after the first success,
	// so readiness stays green even when the gateway degrades.
	rec = doRequest(t, s, http.MethodGet, "/readyz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status after cached resolve = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestReadyzUnavailable(t *testing.T) {
	s, store := newTestServer(t)
	store.FailWith("accounts", errors.New("gateway down"))

	rec := doRequest(t, s, http.MethodGet, "/readyz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestWeeksList(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/weeks")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := decode[struct {
		Weeks []weekDTO `json:"weeks"`
	}](t, rec)
	if len(body.Weeks) != 4 {
		t.Fatalf("len(weeks) = %d, want 4", len(body.Weeks))
	}
	if body.Weeks[0].Index != 0 {
		t.Errorf("first index = %d, want 0", body.Weeks[0].Index)
	}
	// Most recent week first: 2022-05-04 is a Wednesday, so the first
	// window runs Monday May 2 through Sunday May 8.
	if body.Weeks[0].Start != "2022-05-02T00:00:00Z" {
		t.Errorf("first start = %s, want 2022-05-02T00:00:00Z", body.Weeks[0].Start)
	}
	if body.Weeks[0].End != "2022-05-08T00:00:00Z" {
		t.Errorf("first end = %s, want 2022-05-08T00:00:00Z", body.Weeks[0].End)
	}
}

func TestWeekTransactions(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/weeks/0/transactions")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := decode[weekResponse](t, rec)
	if body.Week.Index != 0 {
		t.Errorf("week index = %d, want 0", body.Week.Index)
	}
	if len(body.TransactionsByDay) == 0 {
		t.Fatal("expected transactions grouped by day")
	}
	if body.RoundUpAmount == nil {
		t.Fatal("expected a round-up amount for the seeded feed")
	}
	if body.RoundUpAmount.MinorUnits != 94 || body.RoundUpAmount.Currency != "GBP" {
		t.Errorf("round-up = %s %d, want GBP 94", body.RoundUpAmount.Currency, body.RoundUpAmount.MinorUnits)
	}
	if body.RoundUpAmount.Display != "GBP 0.94" {
		t.Errorf("display = %q, want %q", body.RoundUpAmount.Display, "GBP 0.94")
	}
}

func TestWeekTransactionsBadIndex(t *testing.T) {
	s, _ := newTestServer(t)

	for _, tc := range []struct {
		path string
		want int
	}{
		{"/api/weeks/abc/transactions", http.StatusBadRequest},
		{"/api/weeks/99/transactions", http.StatusNotFound},
		{"/api/weeks/-1/transactions", http.StatusNotFound},
	} {
		rec := doRequest(t, s, http.MethodGet, tc.path)
		if rec.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.path, rec.Code, tc.want)
		}
	}
}

func TestWeekTransactionsCached(t *testing.T) {
	s, store := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/weeks/0/transactions")
	if rec.Code != http.StatusOK {
		t.Fatalf("first fetch status = %d, want %d", rec.Code, http.StatusOK)
	}

	// A degraded gateway must not surface for an already cached week.
	store.FailWith("feed", errors.New("gateway down"))
	rec = doRequest(t, s, http.MethodGet, "/api/weeks/0/transactions")
	if rec.Code != http.StatusOK {
		t.Fatalf("cached fetch status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/weeks/1/transactions")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("uncached fetch status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}

func TestWeekTransactionsFetchFailure(t *testing.T) {
	s, store := newTestServer(t)
	store.FailWith("feed", errors.New("gateway down"))

	rec := doRequest(t, s, http.MethodGet, "/api/weeks/0/transactions")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	body := decode[errorResponse](t, rec)
	if body.Error == "" {
		t.Error("expected an error message")
	}
}

func TestRoundUpWithoutSelection(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/roundup")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestRoundUpSuccess(t *testing.T) {
	s, store := newTestServer(t)

	if rec := doRequest(t, s, http.MethodGet, "/api/weeks/0/transactions"); rec.Code != http.StatusOK {
		t.Fatalf("selecting week: status = %d", rec.Code)
	}

	rec := doRequest(t, s, http.MethodPost, "/api/roundup")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	body := decode[roundUpResponse](t, rec)
	if body.Notification != string(controller.NoteRoundUpDone) {
		t.Errorf("notification = %q, want %q", body.Notification, controller.NoteRoundUpDone)
	}
	if body.Deposited == nil || body.Deposited.MinorUnits != 94 {
		t.Errorf("deposited = %+v, want 94 minor units", body.Deposited)
	}

	transfers := store.Transfers()
	if len(transfers) != 1 {
		t.Fatalf("len(transfers) = %d, want 1", len(transfers))
	}
	if transfers[0].MinorUnits != 94 {
		t.Errorf("transferred = %d, want 94", transfers[0].MinorUnits)
	}
}

func TestRoundUpGatewayFailure(t *testing.T) {
	s, store := newTestServer(t)

	if rec := doRequest(t, s, http.MethodGet, "/api/weeks/0/transactions"); rec.Code != http.StatusOK {
		t.Fatalf("selecting week: status = %d", rec.Code)
	}

	store.FailWith("transfer", errors.New("gateway down"))
	rec := doRequest(t, s, http.MethodPost, "/api/roundup")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	body := decode[roundUpResponse](t, rec)
	if body.Notification != string(controller.NoteRoundUpFail) {
		t.Errorf("notification = %q, want %q", body.Notification, controller.NoteRoundUpFail)
	}
}

func TestGatewayStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"gateway error", &core.GatewayError{Op: "get accounts", Err: errors.New("boom")}, http.StatusBadGateway},
		{"no primary account", core.ErrNoPrimaryAccount, http.StatusBadGateway},
		{"top-up failed", core.ErrTopUpFailed, http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gatewayStatus(tt.err); got != tt.want {
				t.Errorf("gatewayStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/weeks")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}

func TestReadyCheckTimeout(t *testing.T) {
	s, _ := newTestServer(t)
	if err := s.readyCheck(context.Background()); err != nil {
		t.Fatalf("readyCheck: %v", err)
	}
}
