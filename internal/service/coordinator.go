package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"gw-rate-converter/internal/custom_err"
	"gw-rate-converter/internal/kafka"
	"gw-rate-converter/internal/models"
	"gw-rate-converter/internal/quote_client"
	"gw-rate-converter/internal/state"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	eventQueueSize = 100
	eventWorkers   = 3
	eventTimeout   = 5 * time.Second
)

type Conversion interface {
	Trigger(ctx context.Context, inputText string, pairs []models.CurrencyPair) uint64
	Clear() state.Snapshot
	Snapshot() state.Snapshot
	Pairs() []models.CurrencyPair
	ResolvePairs(codes []string) ([]models.CurrencyPair, error)
}

// Coordinator runs conversion attempts. Every attempt gets a generation; only the latest one may commit.
type Coordinator struct {
	client        quote_client.RateClient
	store         *state.Store
	kafkaProducer kafka.Producer
	pairs         []models.CurrencyPair
	log           *slog.Logger

	tasks      sync.WaitGroup
	eventQueue chan models.ConversionCommittedEvent
	wg         sync.WaitGroup
	stopCh     chan struct{}
	stopOnce   sync.Once
}

func NewCoordinator(
	client quote_client.RateClient,
	store *state.Store,
	kafkaProducer kafka.Producer,
	pairs []models.CurrencyPair,
	log *slog.Logger,
) *Coordinator {
	c := &Coordinator{
		client:        client,
		store:         store,
		kafkaProducer: kafkaProducer,
		pairs:         slices.Clone(pairs),
		log:           log,
		eventQueue:    make(chan models.ConversionCommittedEvent, eventQueueSize),
		stopCh:        make(chan struct{}),
	}

	for i := 0; i < eventWorkers; i++ {
		c.wg.Add(1)
		go c.kafkaWorker(i)
	}

	return c
}

func (c *Coordinator) kafkaWorker(id int) {
	defer c.wg.Done()
	c.log.Debug("kafka worker started", slog.Int("worker_id", id))

	for {
		select {
		case event := <-c.eventQueue:
			c.send(id, event)

		case <-c.stopCh:
			for {
				select {
				case event := <-c.eventQueue:
					c.send(id, event)
				default:
					c.log.Debug("kafka worker stopping", slog.Int("worker_id", id))
					return
				}
			}
		}
	}
}

func (c *Coordinator) send(workerID int, event models.ConversionCommittedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if err := c.kafkaProducer.SendConversionEvent(ctx, event); err != nil {
		c.log.Error("kafka send failed",
			slog.Int("worker_id", workerID),
			slog.Uint64("generation", event.Generation),
			slog.String("error", err.Error()))
	}
}

// Shutdown waits for running attempts and stops the event workers.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.log.Info("shutting down conversion coordinator")

	done := make(chan struct{})
	go func() {
		c.tasks.Wait()
		c.stopOnce.Do(func() { close(c.stopCh) })
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.log.Info("conversion coordinator stopped")
		return nil
	case <-ctx.Done():
		c.log.Warn("shutdown timeout exceeded")
		return ctx.Err()
	}
}

func (c *Coordinator) Pairs() []models.CurrencyPair {
	return slices.Clone(c.pairs)
}

// ResolvePairs maps pair codes onto configured pairs; an empty list means all of them.
func (c *Coordinator) ResolvePairs(codes []string) ([]models.CurrencyPair, error) {
	const op = "service.ResolvePairs"

	if len(codes) == 0 {
		return c.Pairs(), nil
	}

	resolved := make([]models.CurrencyPair, 0, len(codes))
	for _, code := range codes {
		pair, err := models.ParsePair(code)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !slices.Contains(c.pairs, pair) {
			return nil, fmt.Errorf("%s: %w: %s is not configured", op, custom_err.ErrUnknownPair, pair)
		}
		resolved = append(resolved, pair)
	}
	return resolved, nil
}

func (c *Coordinator) Snapshot() state.Snapshot {
	return c.store.Snapshot()
}

// Trigger runs one conversion attempt to completion and returns its generation.
// The outcome is only visible through the state store.
func (c *Coordinator) Trigger(ctx context.Context, inputText string, pairs []models.CurrencyPair) uint64 {
	gen, amount, pairs, ok := c.begin(inputText, pairs)
	if ok {
		c.tasks.Add(1)
		defer c.tasks.Done()
		c.run(ctx, gen, inputText, amount, pairs)
	}
	return gen
}

// TriggerAsync commits the loading state and returns while the quotes are still in flight.
func (c *Coordinator) TriggerAsync(ctx context.Context, inputText string, pairs []models.CurrencyPair) uint64 {
	gen, amount, pairs, ok := c.begin(inputText, pairs)
	if ok {
		c.tasks.Add(1)
		go func() {
			defer c.tasks.Done()
			c.run(context.WithoutCancel(ctx), gen, inputText, amount, pairs)
		}()
	}
	return gen
}

// Clear resets the state under a new generation so no older attempt can land afterwards.
func (c *Coordinator) Clear() state.Snapshot {
	gen := c.store.NextGeneration()
	c.store.Commit(gen, state.Snapshot{})
	c.log.Info("состояние конвертации сброшено", slog.Uint64("generation", gen))
	return c.store.Snapshot()
}

func (c *Coordinator) begin(inputText string, pairs []models.CurrencyPair) (uint64, decimal.Decimal, []models.CurrencyPair, bool) {
	const op = "service.Trigger"

	amount, err := ParseAmount(inputText)
	pairs = uniquePairs(pairs)
	if err == nil && len(pairs) == 0 {
		err = fmt.Errorf("%s: %w", op, custom_err.ErrNoPairs)
	}

	gen := c.store.NextGeneration()
	if err != nil {
		c.log.Warn("некорректный ввод",
			slog.String("op", op),
			slog.Uint64("generation", gen),
			slog.String("input", inputText),
			slog.String("error", err.Error()))
		c.commit(gen, state.Snapshot{InputText: inputText, Err: err})
		return gen, decimal.Zero, nil, false
	}

	c.log.Info("запуск конвертации",
		slog.Uint64("generation", gen),
		slog.String("amount", amount.String()),
		slog.Int("pairs", len(pairs)))
	c.store.Commit(gen, state.Snapshot{InputText: inputText, IsLoading: true})
	return gen, amount, pairs, true
}

func (c *Coordinator) run(ctx context.Context, gen uint64, inputText string, amount decimal.Decimal, pairs []models.CurrencyPair) {
	const op = "service.run"

	results, err := c.fetchAll(ctx, amount, pairs)
	if err != nil {
		c.log.Error("ошибка конвертации",
			slog.String("op", op),
			slog.Uint64("generation", gen),
			slog.String("error", err.Error()))
		c.commit(gen, state.Snapshot{InputText: inputText, Err: err})
		return
	}

	byPair := make(map[string]models.ConversionResult, len(results))
	for _, r := range results {
		byPair[r.Pair.Code()] = r
	}
	c.commit(gen, state.Snapshot{InputText: inputText, Results: byPair})
}

// fetchAll waits for every quote to settle; the first error to arrive wins.
func (c *Coordinator) fetchAll(ctx context.Context, amount decimal.Decimal, pairs []models.CurrencyPair) ([]models.ConversionResult, error) {
	var g errgroup.Group
	results := make([]models.ConversionResult, len(pairs))

	for i, pair := range pairs {
		g.Go(func() error {
			rate, err := c.client.FetchRate(ctx, pair)
			if err != nil {
				return err
			}
			res, err := Convert(amount, *rate)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Coordinator) commit(gen uint64, snap state.Snapshot) {
	if !c.store.Commit(gen, snap) {
		c.log.Info("результат устарел и отброшен",
			slog.Uint64("generation", gen),
			slog.Uint64("latest", c.store.Latest()))
		return
	}

	event := newCommittedEvent(gen, snap)
	select {
	case c.eventQueue <- event:
	default:
		c.log.Error("очередь событий переполнена, событие отброшено",
			slog.Uint64("generation", gen))
	}
}

func newCommittedEvent(gen uint64, snap state.Snapshot) models.ConversionCommittedEvent {
	entries := make([]models.ConversionEntry, 0, len(snap.Results))
	for _, r := range snap.Results {
		entries = append(entries, models.ConversionEntry{
			Pair:            r.Pair.Code(),
			ConvertedAmount: r.Display(),
			Rate:            r.Rate.String(),
		})
	}
	slices.SortFunc(entries, func(a, b models.ConversionEntry) int {
		return cmp.Compare(a.Pair, b.Pair)
	})

	return models.ConversionCommittedEvent{
		EventID:    uuid.New(),
		Generation: gen,
		InputText:  snap.InputText,
		Results:    entries,
		Error:      custom_err.Code(snap.Err),
		Timestamp:  time.Now(),
	}
}

func uniquePairs(pairs []models.CurrencyPair) []models.CurrencyPair {
	out := make([]models.CurrencyPair, 0, len(pairs))
	for _, p := range pairs {
		if p.IsZero() || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
