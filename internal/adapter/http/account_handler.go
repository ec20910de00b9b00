package http

import (
	"net/http"

	"cashflow-bridge/internal/usecase/account"

	"github.com/labstack/echo/v4"
)

type AccountHandler struct{ uc *account.Usecase }

func NewAccountHandler(uc *account.Usecase) *AccountHandler { return &AccountHandler{uc: uc} }

func (h *AccountHandler) Connect(c echo.Context) error {
	var req account.ConnectInput
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Connect(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AccountHandler) Transactions(c echo.Context) error {
	accountID, ok, err := pathID(c, "account_id")
	if !ok {
		return err
	}
	list, err := h.uc.Transactions(c.Request().Context(), accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"account_id":   accountID,
		"transactions": list,
	})
}

func (h *AccountHandler) CashFlow(c echo.Context) error {
	accountID, ok, err := pathID(c, "account_id")
	if !ok {
		return err
	}
	dto, err := h.uc.CashFlow(c.Request().Context(), accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
