package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cashflow-bridge/internal/creditengine"
	"cashflow-bridge/internal/domain/account"
	"cashflow-bridge/internal/domain/loan"
	"cashflow-bridge/internal/domain/offer"
	"cashflow-bridge/internal/persona"
	"cashflow-bridge/internal/usecase/decision"

	"github.com/labstack/echo/v4"
)

func TestHealth_ReturnsOKWithRFC3339NanoUTC(t *testing.T) {
	e := echo.New()
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	start := time.Now().UTC()

	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	ct := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var body struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	if body.Status != "ok" {
		t.Fatalf(`expected status "ok", got %q`, body.Status)
	}

	// Time is RFC3339Nano and UTC (with 'Z')
	parsed, err := time.Parse(time.RFC3339Nano, body.Time)
	if err != nil {
		t.Fatalf("time not RFC3339Nano: %v (value=%q)", err, body.Time)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", parsed.Location())
	}
	now := time.Now().UTC()
	if parsed.Before(start.Add(-2*time.Second)) || parsed.After(now.Add(2*time.Second)) {
		t.Fatalf("time not within expected window: parsed=%v start=%v now=%v", parsed, start, now)
	}
}

func TestPersonas_ListsCatalog(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/personas", nil), rec)

	if err := NewHandler().Personas(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var got []persona.Persona
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != len(persona.Catalog()) || got[0].Archetype != persona.SteadyWeekly {
		t.Fatalf("unexpected personas: %+v", got)
	}
	if !strings.Contains(rec.Body.String(), `"id":"steady_weekly"`) {
		t.Fatalf("persona id not serialised as id: %s", rec.Body.String())
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		account.ErrNotFound:                      http.StatusNotFound,
		offer.ErrNotFound:                        http.StatusNotFound,
		loan.ErrNotFound:                         http.StatusNotFound,
		decision.ErrNoDecision:                   http.StatusNotFound,
		offer.ErrExpired:                         http.StatusGone,
		loan.ErrAlreadyAccepted:                  http.StatusConflict,
		loan.ErrAlreadySigned:                    http.StatusConflict,
		loan.ErrInvalidTransition:                http.StatusConflict,
		creditengine.ErrInsufficientData:         http.StatusUnprocessableEntity,
		persona.ErrUnknownPersona:                http.StatusUnprocessableEntity,
		fmt.Errorf("wrapped: %w", offer.ErrExpired): http.StatusGone,
		errors.New("db down"):                    http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := statusFor(err); got != want {
			t.Errorf("statusFor(%v) = %d, want %d", err, got, want)
		}
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	_ = writeError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatalf("internal detail leaked: %s", rec.Body.String())
	}
}
