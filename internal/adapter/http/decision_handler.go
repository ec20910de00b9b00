package http

import (
	"net/http"

	"cashflow-bridge/internal/usecase/decision"

	"github.com/labstack/echo/v4"
)

type DecisionHandler struct{ uc *decision.Usecase }

func NewDecisionHandler(uc *decision.Usecase) *DecisionHandler { return &DecisionHandler{uc: uc} }

// Decide always answers 200 when the engine ran; rejection is a valid outcome.
func (h *DecisionHandler) Decide(c echo.Context) error {
	accountID, ok, err := pathID(c, "account_id")
	if !ok {
		return err
	}
	dto, err := h.uc.Decide(c.Request().Context(), accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DecisionHandler) Latest(c echo.Context) error {
	accountID, ok, err := pathID(c, "account_id")
	if !ok {
		return err
	}
	dto, err := h.uc.Latest(c.Request().Context(), accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DecisionHandler) GetOffer(c echo.Context) error {
	offerID, ok, err := pathID(c, "offer_id")
	if !ok {
		return err
	}
	dto, err := h.uc.GetOffer(c.Request().Context(), offerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
