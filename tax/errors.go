package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrValidation = errors.New("validation failed")

// ValidationError is the only failure Calculate reports. No result is
// produced when one is returned.
type ValidationError struct {
	Field   string
	Message string
	// Total is set for percentage-total failures.
	Total *decimal.Decimal
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Display is the message a form shows next to the offending input.
func (e *ValidationError) Display() string {
	if e.Total != nil {
		return fmt.Sprintf("Total component percentage is %s%%. It must be exactly 100%%.", e.Total.StringFixed(1))
	}
	return e.Error()
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
