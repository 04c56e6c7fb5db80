package custom_err

import "errors"

var (
	// Input errors
	ErrInvalidInput = errors.New("invalid input")
	ErrNoPairs      = errors.New("no currency pairs requested")
	ErrUnknownPair  = errors.New("unknown currency pair")

	// Quote service errors
	ErrNetwork         = errors.New("network error")
	ErrTimeout         = errors.New("quote request timed out")
	ErrParse           = errors.New("malformed quote response")
	ErrRateUnavailable = errors.New("rate unavailable")

	// Conversion errors
	ErrDivisionByZero = errors.New("division by zero rate")
)

// Code возвращает машинный код ошибки для API ответов
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoPairs), errors.Is(err, ErrUnknownPair):
		return "invalid_input"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrRateUnavailable):
		return "rate_unavailable"
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	default:
		return "internal_error"
	}
}

// Message returns a single human-readable line for the presentation layer.
func Message(err error) string {
	switch Code(err) {
	case "":
		return ""
	case "invalid_input":
		if errors.Is(err, ErrNoPairs) {
			return "Select at least one currency"
		}
		if errors.Is(err, ErrUnknownPair) {
			return "Unsupported currency pair"
		}
		return "Please enter a valid numeric amount"
	case "timeout":
		return "The quote service did not respond in time"
	case "network_error":
		return "Failed to reach the quote service"
	case "parse_error":
		return "The quote service returned an unexpected response"
	case "rate_unavailable":
		return "Exchange rate is currently unavailable"
	case "division_by_zero":
		return "Exchange rate is invalid"
	default:
		return "An internal error occurred"
	}
}
