package service

import (
	"fmt"
	"regexp"
	"strings"

	"gw-rate-converter/internal/custom_err"
	"gw-rate-converter/internal/models"

	"github.com/shopspring/decimal"
)

// ResultPlaces is the number of decimal places a converted amount is rounded to.
const ResultPlaces = 2

// digits with an optional decimal point; no sign, no exponent, no thousands separator
var amountPattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

// ParseAmount parses user input with a fixed decimal point convention.
func ParseAmount(text string) (decimal.Decimal, error) {
	const op = "service.ParseAmount"

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%s: %w: empty amount", op, custom_err.ErrInvalidInput)
	}
	if !amountPattern.MatchString(trimmed) {
		return decimal.Zero, fmt.Errorf("%s: %w: %q is not a decimal number", op, custom_err.ErrInvalidInput, text)
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w: %w", op, custom_err.ErrInvalidInput, err)
	}
	return amount, nil
}

// Convert divides the home-currency amount by the bid and rounds half away from zero
// (half-up for the non-negative amounts accepted here) to ResultPlaces.
func Convert(amount decimal.Decimal, rate models.ExchangeRate) (models.ConversionResult, error) {
	const op = "service.Convert"

	if !rate.IsUsable() {
		return models.ConversionResult{}, fmt.Errorf("%s: %w: %s bid %s", op, custom_err.ErrDivisionByZero, rate.Pair, rate.Bid)
	}
	if amount.IsNegative() {
		return models.ConversionResult{}, fmt.Errorf("%s: %w: negative amount", op, custom_err.ErrInvalidInput)
	}

	converted := amount.Div(rate.Bid).Round(ResultPlaces)
	return models.NewConversionResult(rate.Pair, converted, rate.Bid), nil
}
