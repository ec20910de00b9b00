package http

import (
	"errors"
	"net/http"
	"strings"

	"cashflow-bridge/internal/creditengine"
	"cashflow-bridge/internal/domain/account"
	"cashflow-bridge/internal/domain/loan"
	"cashflow-bridge/internal/domain/offer"
	"cashflow-bridge/internal/domain/transaction"
	"cashflow-bridge/internal/persona"
	"cashflow-bridge/internal/usecase/decision"
	"cashflow-bridge/pkg/id"

	"github.com/labstack/echo/v4"
)

// Map domain errors → HTTP codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, account.ErrNotFound),
		errors.Is(err, offer.ErrNotFound),
		errors.Is(err, loan.ErrNotFound),
		errors.Is(err, decision.ErrNoDecision):
		return http.StatusNotFound
	case errors.Is(err, offer.ErrExpired):
		return http.StatusGone
	case errors.Is(err, loan.ErrAlreadyAccepted),
		errors.Is(err, loan.ErrAlreadySigned),
		errors.Is(err, loan.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, creditengine.ErrInsufficientData),
		errors.Is(err, creditengine.ErrInvalidSummary),
		errors.Is(err, transaction.ErrInvalidTransaction),
		errors.Is(err, persona.ErrUnknownPersona):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		c.Logger().Error(err)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

// pathID reads a 32-hex path param; ok=false means a 400 was already written.
func pathID(c echo.Context, name string) (string, bool, error) {
	v := c.Param(name)
	if v == "" {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + name + " path param"})
	}
	if !id.Valid(v) {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name + " path param"})
	}
	return v, true, nil
}

// bindAndValidate writes 400 on malformed JSON and 422 on rule violations.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// ---- test helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
