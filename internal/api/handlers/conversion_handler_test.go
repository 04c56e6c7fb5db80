package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gw-rate-converter/internal/custom_err"
	"gw-rate-converter/internal/models"
	"gw-rate-converter/internal/state"
	"gw-rate-converter/pkg/response"
)

var (
	usdBRL = models.MustParsePair("USD-BRL")
	eurBRL = models.MustParsePair("EUR-BRL")
)

type MockConversion struct {
	mock.Mock
}

func (m *MockConversion) Trigger(ctx context.Context, inputText string, pairs []models.CurrencyPair) uint64 {
	args := m.Called(ctx, inputText, pairs)
	return args.Get(0).(uint64)
}

func (m *MockConversion) Clear() state.Snapshot {
	args := m.Called()
	return args.Get(0).(state.Snapshot)
}

func (m *MockConversion) Snapshot() state.Snapshot {
	args := m.Called()
	return args.Get(0).(state.Snapshot)
}

func (m *MockConversion) Pairs() []models.CurrencyPair {
	args := m.Called()
	return args.Get(0).([]models.CurrencyPair)
}

func (m *MockConversion) ResolvePairs(codes []string) ([]models.CurrencyPair, error) {
	args := m.Called(codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CurrencyPair), args.Error(1)
}

func successSnapshot(gen uint64) state.Snapshot {
	return state.Snapshot{
		InputText: "100",
		Results: map[string]models.ConversionResult{
			"USD-BRL": models.NewConversionResult(usdBRL, decimal.RequireFromString("20.00"), decimal.RequireFromString("5.00")),
			"EUR-BRL": models.NewConversionResult(eurBRL, decimal.RequireFromString("18.18"), decimal.RequireFromString("5.5")),
		},
		Generation: gen,
	}
}

func doRequest(h http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/v1/conversion", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestConversionHandler_Convert_Success(t *testing.T) {
	svc := new(MockConversion)
	h := NewConversionHandler(svc)

	pairs := []models.CurrencyPair{usdBRL, eurBRL}
	svc.On("ResolvePairs", []string(nil)).Return(pairs, nil)
	svc.On("Trigger", mock.Anything, "100", pairs).Return(uint64(3))
	svc.On("Snapshot").Return(successSnapshot(3))

	rec := doRequest(h.Convert, http.MethodPost, `{"amount":"100"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.ConversionStateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, uint64(3), resp.Generation)
	assert.Empty(t, resp.Error)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "EUR-BRL", resp.Results[0].Pair)
	assert.Equal(t, "18.18", resp.Results[0].ConvertedAmount)
	assert.Equal(t, "5.50", resp.Results[0].Rate)
	assert.Equal(t, "USD-BRL", resp.Results[1].Pair)
	assert.Equal(t, "20.00", resp.Results[1].ConvertedAmount)
	assert.Equal(t, "1 USD = 5.00 BRL", resp.Results[1].RateDisplay)

	svc.AssertExpectations(t)
}

func TestConversionHandler_Convert_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", fmt.Errorf("service.ParseAmount: %w", custom_err.ErrInvalidInput), http.StatusBadRequest, "invalid_input"},
		{"timeout", custom_err.ErrTimeout, http.StatusGatewayTimeout, "timeout"},
		{"network", custom_err.ErrNetwork, http.StatusBadGateway, "network_error"},
		{"parse", custom_err.ErrParse, http.StatusBadGateway, "parse_error"},
		{"rate unavailable", custom_err.ErrRateUnavailable, http.StatusBadGateway, "rate_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockConversion)
			h := NewConversionHandler(svc)

			svc.On("ResolvePairs", []string{"USD-BRL"}).Return([]models.CurrencyPair{usdBRL}, nil)
			svc.On("Trigger", mock.Anything, "-", []models.CurrencyPair{usdBRL}).Return(uint64(7))
			svc.On("Snapshot").Return(state.Snapshot{InputText: "-", Err: tt.err, Generation: 7})

			rec := doRequest(h.Convert, http.MethodPost, `{"amount":"-","pairs":["USD-BRL"]}`)

			assert.Equal(t, tt.status, rec.Code)
			var resp models.ConversionStateResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Error)
			assert.NotEmpty(t, resp.ErrorMessage)
			assert.Empty(t, resp.Results)
		})
	}
}

func TestConversionHandler_Convert_Superseded(t *testing.T) {
	svc := new(MockConversion)
	h := NewConversionHandler(svc)

	svc.On("ResolvePairs", []string(nil)).Return([]models.CurrencyPair{usdBRL}, nil)
	svc.On("Trigger", mock.Anything, "100", []models.CurrencyPair{usdBRL}).Return(uint64(4))
	svc.On("Snapshot").Return(successSnapshot(5))

	rec := doRequest(h.Convert, http.MethodPost, `{"amount":"100"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp response.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "superseded", resp.Error)
}

func TestConversionHandler_Convert_InvalidJSON(t *testing.T) {
	svc := new(MockConversion)
	h := NewConversionHandler(svc)

	rec := doRequest(h.Convert, http.MethodPost, `{"amount":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything, mock.Anything)
}

func TestConversionHandler_Convert_UnknownPair(t *testing.T) {
	svc := new(MockConversion)
	h := NewConversionHandler(svc)

	svc.On("ResolvePairs", []string{"GBP-BRL"}).Return(nil, fmt.Errorf("service.ResolvePairs: %w", custom_err.ErrUnknownPair))

	rec := doRequest(h.Convert, http.MethodPost, `{"amount":"10","pairs":["GBP-BRL"]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp response.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "invalid_input", resp.Error)
	svc.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything, mock.Anything)
}

func TestConversionHandler_ClearConversion(t *testing.T) {
	svc := new(MockConversion)
	h := NewConversionHandler(svc)

	svc.On("Clear").Return(state.Snapshot{Results: map[string]models.ConversionResult{}, Generation: 9})

	rec := doRequest(h.ClearConversion, http.MethodDelete, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp models.ConversionStateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, uint64(9), resp.Generation)
	assert.Equal(t, "", resp.InputText)
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.Error)
	assert.False(t, resp.IsLoading)
}

func TestConversionHandler_GetConversion(t *testing.T) {
	svc := new(MockConversion)
	h := NewConversionHandler(svc)

	svc.On("Snapshot").Return(state.Snapshot{InputText: "100", IsLoading: true, Generation: 2})

	rec := doRequest(h.GetConversion, http.MethodGet, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp models.ConversionStateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.IsLoading)
	assert.Equal(t, "100", resp.InputText)
}

func TestConversionHandler_GetPairs(t *testing.T) {
	svc := new(MockConversion)
	h := NewConversionHandler(svc)

	svc.On("Pairs").Return([]models.CurrencyPair{usdBRL, eurBRL})

	rec := doRequest(h.GetPairs, http.MethodGet, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp models.PairsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"USD-BRL", "EUR-BRL"}, resp.Pairs)
}
