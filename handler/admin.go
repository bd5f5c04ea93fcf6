package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AnnaCarter465/paye-calculator/database"
	"github.com/AnnaCarter465/paye-calculator/tax"
)

type AdminDeductionRequest struct {
	Enabled bool    `json:"enabled"`
	Rate    float64 `json:"rate" validate:"number,gte=0,lte=100"`
	Amount  float64 `json:"amount" validate:"number,gte=0"`
}

type DeductionDefaultResponse struct {
	Scheme  string  `json:"scheme"`
	Kind    string  `json:"kind"`
	Enabled bool    `json:"enabled"`
	Rate    float64 `json:"rate"`
	Amount  float64 `json:"amount"`
}

type IAdminDB interface {
	FindDeductionDefaults(ctx context.Context, scheme string) ([]database.DeductionDefault, error)
	UpsertDeductionDefault(ctx context.Context, d database.DeductionDefault) (database.DeductionDefault, error)
}

type AdminHandler struct {
	vl  *validator.Validate
	db  IAdminDB
	log *zap.Logger
}

func NewAdminHandler(vl *validator.Validate, db IAdminDB, log *zap.Logger) *AdminHandler {
	return &AdminHandler{vl, db, log}
}

func newDeductionDefaultResponse(d database.DeductionDefault) DeductionDefaultResponse {
	return DeductionDefaultResponse{
		Scheme:  d.Scheme,
		Kind:    d.Kind,
		Enabled: d.Enabled,
		Rate:    money(d.Rate),
		Amount:  money(d.Amount),
	}
}

func (a *AdminHandler) ListDeductionDefaults(c echo.Context) error {
	scheme, err := tax.SchemeFor(c.Param("scheme"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Invalid scheme",
		})
	}

	defaults, err := a.db.FindDeductionDefaults(c.Request().Context(), string(scheme.Version()))
	if err != nil {
		a.log.Error("failed to find deduction defaults", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	resp := make([]DeductionDefaultResponse, 0, len(defaults))
	for _, d := range defaults {
		resp = append(resp, newDeductionDefaultResponse(d))
	}

	return c.JSON(http.StatusOK, resp)
}

func (a *AdminHandler) UpdateDeductionDefault(c echo.Context) error {
	scheme, err := tax.SchemeFor(c.Param("scheme"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Invalid scheme",
		})
	}

	kind, err := tax.ParseDeductionKind(c.Param("kind"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Invalid deduction kind",
		})
	}

	var req AdminDeductionRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := a.vl.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Invalid rate or amount",
		})
	}

	if kind == tax.DeductionMortgageInterest && !scheme.AllowsMortgageInterest() {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Mortgage interest is not deductible under this scheme",
		})
	}

	updated, err := a.db.UpsertDeductionDefault(c.Request().Context(), database.DeductionDefault{
		Scheme:  string(scheme.Version()),
		Kind:    string(kind),
		Enabled: req.Enabled,
		Rate:    decimal.NewFromFloat(req.Rate),
		Amount:  decimal.NewFromFloat(req.Amount),
	})
	if err != nil {
		a.log.Error("failed to update deduction default", zap.String("kind", string(kind)), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Failed to update deduction default",
		})
	}

	return c.JSON(http.StatusOK, newDeductionDefaultResponse(updated))
}
