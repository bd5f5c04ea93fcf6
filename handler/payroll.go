package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AnnaCarter465/paye-calculator/database"
	"github.com/AnnaCarter465/paye-calculator/tax"
)

type PayrollRequest struct {
	GrossMonthly float64                   `json:"grossMonthly" validate:"number"`
	Scheme       string                    `json:"scheme" validate:"omitempty,oneof=legacy nta2025"`
	Components   []ComponentInput          `json:"components" validate:"required,dive"`
	Deductions   map[string]DeductionInput `json:"deductions" validate:"omitempty,dive,keys,oneof=pension nhf nhis lifeAssurance voluntaryPension dues mortgageInterest,endkeys"`
}

type ComponentInput struct {
	Name       string  `json:"name" validate:"required"`
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
	Value      float64 `json:"value" validate:"gte=0"`
}

// DeductionInput overrides a stored preset. Omitted fields keep the preset
// value.
type DeductionInput struct {
	Enabled *bool    `json:"enabled"`
	Rate    *float64 `json:"rate" validate:"omitempty,gte=0,lte=100"`
	Amount  *float64 `json:"amount" validate:"omitempty,gte=0"`
}

func (in DeductionInput) apply(item tax.DeductionItem) tax.DeductionItem {
	if in.Enabled != nil {
		item.Enabled = *in.Enabled
	}
	if in.Rate != nil {
		item.Rate = decimal.NewFromFloat(*in.Rate)
	}
	if in.Amount != nil {
		item.Amount = decimal.NewFromFloat(*in.Amount)
	}
	return item
}

type PayrollResponse struct {
	CalculationID         string            `json:"calculationId"`
	Scheme                string            `json:"scheme"`
	GrossMonthly          float64           `json:"grossMonthly"`
	AnnualGross           float64           `json:"annualGross"`
	MonthlyDeductions     float64           `json:"monthlyDeductions"`
	TotalAnnualDeductions float64           `json:"totalAnnualDeductions"`
	AnnualCRA             float64           `json:"annualCRA"`
	TaxableIncome         float64           `json:"taxableIncome"`
	AnnualTax             float64           `json:"annualTax"`
	MonthlyTax            float64           `json:"monthlyTax"`
	MonthlyNetPay         float64           `json:"monthlyNetPay"`
	EffectiveRate         float64           `json:"effectiveRate"`
	Components            []ComponentOutput `json:"components"`
	Deductions            []DeductionOutput `json:"deductions"`
	TaxLevel              []TaxLevel        `json:"taxLevel"`
	Relief                ReliefOutput      `json:"relief"`
}

type ComponentOutput struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Value      float64 `json:"value"`
}

type DeductionOutput struct {
	Kind    string  `json:"kind"`
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
}

type TaxLevel struct {
	Level  string  `json:"level"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
	Tax    float64 `json:"tax"`
}

type ReliefOutput struct {
	Fixed      float64 `json:"fixed"`
	Percentage float64 `json:"percentage"`
	Total      float64 `json:"total"`
}

type IDB interface {
	FindDeductionDefaults(ctx context.Context, scheme string) ([]database.DeductionDefault, error)
}

type PayrollHandler struct {
	vl            *validator.Validate
	db            IDB
	log           *zap.Logger
	defaultScheme string
	workers       int
}

func NewPayrollHandler(vl *validator.Validate, db IDB, log *zap.Logger, defaultScheme string, workers int) *PayrollHandler {
	if workers <= 0 {
		workers = 1
	}
	return &PayrollHandler{vl, db, log, defaultScheme, workers}
}

func (h *PayrollHandler) scheme(version string) (tax.Scheme, error) {
	if strings.TrimSpace(version) == "" {
		version = h.defaultScheme
	}
	return tax.SchemeFor(version)
}

// getDeductionDefaults loads the stored presets for a scheme. Rows naming
// an unknown kind are skipped.
func (h *PayrollHandler) getDeductionDefaults(ctx context.Context, scheme tax.Scheme) (tax.DeductionConfig, error) {
	defaults, err := h.db.FindDeductionDefaults(ctx, string(scheme.Version()))
	if err != nil {
		h.log.Error("failed to find deduction defaults", zap.String("scheme", string(scheme.Version())), zap.Error(err))
		return tax.DeductionConfig{}, err
	}

	var cfg tax.DeductionConfig

	for _, d := range defaults {
		kind, err := tax.ParseDeductionKind(d.Kind)
		if err != nil {
			h.log.Warn("skipping unknown deduction default", zap.String("kind", d.Kind))
			continue
		}

		cfg = cfg.With(kind, tax.DeductionItem{
			Enabled: d.Enabled,
			Rate:    d.Rate,
			Amount:  d.Amount,
		})
	}

	return cfg, nil
}

// validateRequest also checks each deduction value; map values are not
// reached by the struct tags, which only cover the keys.
func (h *PayrollHandler) validateRequest(req PayrollRequest) error {
	if err := h.vl.Struct(req); err != nil {
		return err
	}

	for _, in := range req.Deductions {
		if err := h.vl.Struct(in); err != nil {
			return err
		}
	}

	return nil
}

func (h *PayrollHandler) CalculatePayroll(c echo.Context) error {
	var req PayrollRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := h.validateRequest(req); err != nil {
		h.log.Debug("payroll request rejected", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	scheme, err := h.scheme(req.Scheme)
	if err != nil {
		return validationResponse(c, err)
	}

	cfg, err := h.getDeductionDefaults(c.Request().Context(), scheme)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	for name, in := range req.Deductions {
		kind, err := tax.ParseDeductionKind(name)
		if err != nil {
			return validationResponse(c, err)
		}

		cfg = cfg.With(kind, in.apply(cfg.Item(kind)))
	}

	comp := tax.Composition{
		GrossMonthly: decimal.NewFromFloat(req.GrossMonthly),
		Components:   make([]tax.Component, 0, len(req.Components)),
	}

	for _, in := range req.Components {
		comp.Components = append(comp.Components, tax.Component{
			Name:       in.Name,
			Percentage: decimal.NewFromFloat(in.Percentage),
			Value:      decimal.NewFromFloat(in.Value),
		})
	}

	result, err := tax.Calculate(comp, cfg, scheme)
	if err != nil {
		return validationResponse(c, err)
	}

	return c.JSON(http.StatusOK, newPayrollResponse(uuid.NewString(), result))
}

func validationResponse(c echo.Context, err error) error {
	var verr *tax.ValidationError

	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: verr.Display(),
			Field:   verr.Field,
		})
	}

	return c.JSON(http.StatusBadRequest, ResponseMsg{
		Message: "Bad request",
	})
}

func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func newPayrollResponse(id string, r tax.Result) *PayrollResponse {
	r = r.Rounded(2)

	resp := &PayrollResponse{
		CalculationID:         id,
		Scheme:                string(r.Scheme),
		GrossMonthly:          money(r.GrossMonthly),
		AnnualGross:           money(r.AnnualGross),
		MonthlyDeductions:     money(r.MonthlyDeductions),
		TotalAnnualDeductions: money(r.TotalAnnualDeductions),
		AnnualCRA:             money(r.AnnualCRA),
		TaxableIncome:         money(r.TaxableIncome),
		AnnualTax:             money(r.AnnualTax),
		MonthlyTax:            money(r.MonthlyTax),
		MonthlyNetPay:         money(r.MonthlyNetPay),
		EffectiveRate:         money(r.EffectiveRate),
		Components:            make([]ComponentOutput, 0, len(r.Components)),
		Deductions:            make([]DeductionOutput, 0, len(r.Deductions.PerItem)),
		TaxLevel:              make([]TaxLevel, 0, len(r.TaxBands)),
		Relief: ReliefOutput{
			Fixed:      money(r.Relief.Fixed),
			Percentage: money(r.Relief.Percentage),
			Total:      money(r.Relief.Total),
		},
	}

	for _, c := range r.Components {
		resp.Components = append(resp.Components, ComponentOutput{
			Name:       c.Name,
			Percentage: money(c.Percentage),
			Value:      money(c.Value),
		})
	}

	for _, l := range r.Deductions.Lines() {
		resp.Deductions = append(resp.Deductions, DeductionOutput{
			Kind:    string(l.Kind),
			Monthly: money(l.Monthly),
			Annual:  money(l.Annual),
		})
	}

	for _, s := range r.TaxBands {
		resp.TaxLevel = append(resp.TaxLevel, TaxLevel{
			Level:  s.Label,
			Rate:   money(s.Rate),
			Amount: money(s.Amount),
			Tax:    money(s.Tax),
		})
	}

	return resp
}
