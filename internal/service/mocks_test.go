package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gw-rate-converter/internal/models"
)

type MockRateClient struct {
	mock.Mock
}

func (m *MockRateClient) FetchRate(ctx context.Context, pair models.CurrencyPair) (*models.ExchangeRate, error) {
	args := m.Called(ctx, pair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRate), args.Error(1)
}

type MockKafkaProducer struct {
	mock.Mock
}

func (m *MockKafkaProducer) SendConversionEvent(ctx context.Context, event models.ConversionCommittedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockKafkaProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

// funcRateClient lets a test control when each fetch returns.
type funcRateClient func(ctx context.Context, pair models.CurrencyPair) (*models.ExchangeRate, error)

func (f funcRateClient) FetchRate(ctx context.Context, pair models.CurrencyPair) (*models.ExchangeRate, error) {
	return f(ctx, pair)
}
