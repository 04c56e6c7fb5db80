package models

import (
	"fmt"
	"strings"
	"time"

	"gw-rate-converter/internal/custom_err"

	"github.com/shopspring/decimal"
)

// CurrencyPair пара валют (base, quote), задается только конфигурацией
type CurrencyPair struct {
	base  string
	quote string
}

// ParsePair разбирает код пары вида "USD-BRL"
func ParsePair(code string) (CurrencyPair, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(code)), "-")
	if len(parts) != 2 || !isCurrencyCode(parts[0]) || !isCurrencyCode(parts[1]) {
		return CurrencyPair{}, fmt.Errorf("%w: %q", custom_err.ErrUnknownPair, code)
	}
	if parts[0] == parts[1] {
		return CurrencyPair{}, fmt.Errorf("%w: %q", custom_err.ErrUnknownPair, code)
	}
	return CurrencyPair{base: parts[0], quote: parts[1]}, nil
}

// MustParsePair is ParsePair for compile-time constants.
func MustParsePair(code string) CurrencyPair {
	p, err := ParsePair(code)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultPairs возвращает пары, которые котируются по умолчанию
func DefaultPairs() []CurrencyPair {
	return []CurrencyPair{MustParsePair("USD-BRL"), MustParsePair("EUR-BRL")}
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func (p CurrencyPair) Base() string  { return p.base }
func (p CurrencyPair) Quote() string { return p.quote }

// Code is the identifier used in the endpoint path, e.g. USD-BRL.
func (p CurrencyPair) Code() string { return p.base + "-" + p.quote }

// Key is the identifier used in the response body, e.g. USDBRL.
func (p CurrencyPair) Key() string { return p.base + p.quote }

func (p CurrencyPair) String() string { return p.Code() }

func (p CurrencyPair) IsZero() bool { return p.base == "" && p.quote == "" }

// ExchangeRate цена одной единицы base, выраженная в quote
type ExchangeRate struct {
	Pair      CurrencyPair
	Bid       decimal.Decimal
	Name      string
	FetchedAt time.Time
}

// IsUsable reports whether the rate can be divided by.
func (r ExchangeRate) IsUsable() bool {
	return r.Bid.IsPositive()
}

// ConversionResult результат конвертации одной пары
type ConversionResult struct {
	Pair            CurrencyPair
	ConvertedAmount decimal.Decimal
	Rate            decimal.Decimal
}

// NewConversionResult is used by the conversion engine only; amount must already be rounded.
func NewConversionResult(pair CurrencyPair, converted, rate decimal.Decimal) ConversionResult {
	return ConversionResult{Pair: pair, ConvertedAmount: converted, Rate: rate}
}

// Display formats the converted amount with two fixed decimals.
func (r ConversionResult) Display() string {
	return r.ConvertedAmount.StringFixed(2)
}

// RateDisplay formats the bid the way the rate line is shown: 1 USD = 5.00 BRL.
func (r ConversionResult) RateDisplay() string {
	return fmt.Sprintf("1 %s = %s %s", r.Pair.Base(), r.Rate.StringFixed(2), r.Pair.Quote())
}

// ConvertRequest запрос на конвертацию
type ConvertRequest struct {
	Amount string   `json:"amount" example:"100"`
	Pairs  []string `json:"pairs,omitempty" example:"USD-BRL,EUR-BRL"`
}

// ConversionResultResponse результат конвертации одной пары в ответе API
type ConversionResultResponse struct {
	Pair            string `json:"pair" example:"USD-BRL"`
	ConvertedAmount string `json:"converted_amount" example:"20.00"`
	Rate            string `json:"rate" example:"5.00"`
	RateDisplay     string `json:"rate_display" example:"1 USD = 5.00 BRL"`
}

// ConversionStateResponse снимок состояния конвертации
type ConversionStateResponse struct {
	InputText    string                     `json:"input_text"`
	Results      []ConversionResultResponse `json:"results"`
	Error        string                     `json:"error,omitempty"`
	ErrorMessage string                     `json:"error_message,omitempty"`
	IsLoading    bool                       `json:"is_loading"`
	Generation   uint64                     `json:"generation"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// PairsResponse список настроенных пар
type PairsResponse struct {
	Pairs []string `json:"pairs"`
}
