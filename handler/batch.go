package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AnnaCarter465/paye-calculator/tax"
)

var csvHeader = []string{"employeeId", "grossMonthly", "basic", "housing", "transport", "other"}

var csvComponents = []string{tax.ComponentBasic, tax.ComponentHousing, tax.ComponentTransport, "Other"}

type PayrollCSV struct {
	EmployeeID    string  `json:"employeeId"`
	GrossMonthly  float64 `json:"grossMonthly"`
	AnnualTax     float64 `json:"annualTax"`
	MonthlyTax    float64 `json:"monthlyTax"`
	MonthlyNetPay float64 `json:"monthlyNetPay"`
}

type PayrollCSVResponse struct {
	Scheme  string       `json:"scheme"`
	Results []PayrollCSV `json:"results"`
}

type payrollRow struct {
	employeeID string
	comp       tax.Composition
}

type rowError struct {
	row int
	err error
}

func (e *rowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.row, e.err)
}

func (e *rowError) Unwrap() error {
	return e.err
}

func firstRowError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %s", raw)
	}
	return d, nil
}

func parsePayrollRows(rows [][]string) ([]payrollRow, string) {
	if len(rows) == 0 {
		return nil, "Wrong csv content, no content"
	}

	if len(rows) == 1 {
		return nil, "Wrong csv content, should have more than 1 row due to it is header"
	}

	var parsed []payrollRow

	for i, row := range rows {
		if len(row) != len(csvHeader) {
			return nil, "Wrong csv column length"
		}

		if i == 0 {
			for j, name := range csvHeader {
				if strings.TrimSpace(row[j]) != name {
					return nil, "Wrong csv header"
				}
			}

			continue
		}

		employeeID := strings.TrimSpace(row[0])
		if employeeID == "" {
			return nil, "Missing employeeId at row " + strconv.Itoa(i)
		}

		gross, err := parseAmount(row[1])
		if err != nil {
			return nil, "Invalid grossMonthly amount at row " + strconv.Itoa(i)
		}

		comp := tax.Composition{GrossMonthly: gross}

		for j, name := range csvComponents {
			pct, err := parseAmount(row[j+2])
			if err != nil {
				return nil, fmt.Sprintf("Invalid %s percentage at row %d", csvHeader[j+2], i)
			}

			if pct.IsZero() {
				continue
			}

			comp.Components = append(comp.Components, tax.Component{Name: name, Percentage: pct})
		}

		parsed = append(parsed, payrollRow{employeeID: employeeID, comp: comp})
	}

	return parsed, ""
}

// CalculatePayrollWithCSV runs one calculation per employee row using the
// stored deduction presets. Rows are computed concurrently and returned in
// upload order.
func (h *PayrollHandler) CalculatePayrollWithCSV(c echo.Context) error {
	mediaType, _, err := mime.ParseMediaType(c.Request().Header.Get(echo.HeaderContentType))
	if err != nil || mediaType != "text/csv" {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Unacceptable content, require CSV content",
		})
	}

	scheme, err := h.scheme(c.QueryParam("scheme"))
	if err != nil {
		return validationResponse(c, err)
	}

	rows, err := csv.NewReader(c.Request().Body).ReadAll()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request, might not be csv format",
		})
	}

	parsed, msg := parsePayrollRows(rows)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: msg,
		})
	}

	cfg, err := h.getDeductionDefaults(c.Request().Context(), scheme)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	results := make([]PayrollCSV, len(parsed))
	errs := make([]error, len(parsed))

	var g errgroup.Group
	g.SetLimit(h.workers)

	for i, row := range parsed {
		g.Go(func() error {
			result, err := tax.Calculate(row.comp, cfg, scheme)
			if err != nil {
				errs[i] = &rowError{row: i + 1, err: err}
				return nil
			}

			result = result.Rounded(2)

			results[i] = PayrollCSV{
				EmployeeID:    row.employeeID,
				GrossMonthly:  money(result.GrossMonthly),
				AnnualTax:     money(result.AnnualTax),
				MonthlyTax:    money(result.MonthlyTax),
				MonthlyNetPay: money(result.MonthlyNetPay),
			}

			return nil
		})
	}

	_ = g.Wait()

	// The earliest bad row is reported regardless of which worker failed first.
	if err := firstRowError(errs); err != nil {
		var rerr *rowError
		var verr *tax.ValidationError

		if errors.As(err, &rerr) && errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, ResponseMsg{
				Message: fmt.Sprintf("Row %d: %s", rerr.row, verr.Display()),
				Field:   verr.Field,
			})
		}

		h.log.Error("batch payroll failed", zap.Error(err))

		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	h.log.Info("batch payroll calculated", zap.String("scheme", string(scheme.Version())), zap.Int("rows", len(results)))

	return c.JSON(http.StatusOK, &PayrollCSVResponse{
		Scheme:  string(scheme.Version()),
		Results: results,
	})
}
