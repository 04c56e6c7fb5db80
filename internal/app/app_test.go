package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"gw-rate-converter/internal/custom_err"
	"gw-rate-converter/internal/state"
)

func quotesStatus(hs *health.Server) healthpb.HealthCheckResponse_ServingStatus {
	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: QuotesHealthService})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN
	}
	return resp.GetStatus()
}

func TestWatchCommits(t *testing.T) {
	store := state.NewStore()
	hs := health.NewServer()
	hs.SetServingStatus(QuotesHealthService, healthpb.HealthCheckResponse_SERVING)

	stop := WatchCommits(store, hs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer stop()

	store.Commit(store.NextGeneration(), state.Snapshot{IsLoading: true})
	store.Commit(store.NextGeneration(), state.Snapshot{Err: fmt.Errorf("%w: %w", custom_err.ErrNetwork, io.ErrUnexpectedEOF)})

	assert.Eventually(t, func() bool {
		return quotesStatus(hs) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 10*time.Millisecond)

	store.Commit(store.NextGeneration(), state.Snapshot{Err: custom_err.ErrInvalidInput})

	assert.Eventually(t, func() bool {
		return quotesStatus(hs) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 10*time.Millisecond)

	store.Commit(store.NextGeneration(), state.Snapshot{Err: custom_err.ErrTimeout})

	assert.Eventually(t, func() bool {
		return quotesStatus(hs) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 10*time.Millisecond)
}
