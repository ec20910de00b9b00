package http

import (
	"net/http"
	"strings"
	"time"

	"cashflow-bridge/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type signLoanReq struct {
	SignerName  string `json:"signer_name"  validate:"required,max=128"`
	SignerEmail string `json:"signer_email" validate:"required,email,max=255"`
	// Accept canonical date `YYYY-MM-DD` (aligns with schema DATE)
	SignedDate string `json:"signed_date" validate:"required,datetime=2006-01-02"`
}

type disburseReq struct {
	IBAN string `json:"iban" validate:"required,iban"`
}

func (h *LoanHandler) AcceptOffer(c echo.Context) error {
	offerID, ok, err := pathID(c, "offer_id")
	if !ok {
		return err
	}
	dto, err := h.uc.Accept(c.Request().Context(), offerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) SignLoan(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	var req signLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	// validated above
	signed, _ := time.Parse("2006-01-02", req.SignedDate)

	dto, err := h.uc.Sign(c.Request().Context(), loan.SignInput{
		LoanID:      loanID,
		SignerName:  req.SignerName,
		SignerEmail: req.SignerEmail,
		SignedDate:  signed,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Disburse(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	var req disburseReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	iban := strings.ToUpper(strings.ReplaceAll(req.IBAN, " ", ""))

	dto, err := h.uc.Disburse(c.Request().Context(), loan.DisburseInput{LoanID: loanID, IBAN: iban})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
