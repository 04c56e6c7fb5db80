package quote_client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gw-rate-converter/internal/custom_err"
	"gw-rate-converter/internal/models"

	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL = "https://economia.awesomeapi.com.br/json/last"
	DefaultTimeout = 10 * time.Second

	maxBodySize  = 1 << 20
	apiKeyHeader = "x-api-key"
)

type RateClient interface {
	FetchRate(ctx context.Context, pair models.CurrencyPair) (*models.ExchangeRate, error)
}

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// HTTPClient is used as is when set; its own Timeout should be zero so the per-call bound decides.
	HTTPClient *http.Client
}

type httpRateClient struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	log        *slog.Logger
	now        func() time.Time
}

// quoteDetail is one entry of the quote response; other fields are ignored.
type quoteDetail struct {
	Bid  *string `json:"bid"`
	Name string  `json:"name"`
}

func NewRateClient(opts Options, log *slog.Logger) RateClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	log.Info("quote client создан",
		slog.String("base_url", baseURL),
		slog.Duration("timeout", timeout),
		slog.Bool("api_key", opts.APIKey != ""))

	return &httpRateClient{
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
		timeout:    timeout,
		httpClient: httpClient,
		log:        log,
		now:        time.Now,
	}
}

func (c *httpRateClient) FetchRate(ctx context.Context, pair models.CurrencyPair) (*models.ExchangeRate, error) {
	const op = "quote_client.FetchRate"

	start := c.now()
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.log.Debug("запрос котировки", slog.String("pair", pair.Code()))

	body, err := c.get(callCtx, pair)
	if err != nil {
		err = c.classify(callCtx, err)
		c.log.Error("ошибка получения котировки",
			slog.String("op", op),
			slog.String("pair", pair.Code()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if duration := c.now().Sub(start); duration > time.Second {
		c.log.Warn("медленный запрос котировки",
			slog.String("op", op),
			slog.String("pair", pair.Code()),
			slog.Duration("duration", duration))
	}

	rate, err := decodeRate(body, pair)
	if err != nil {
		c.log.Error("некорректный ответ сервиса котировок",
			slog.String("op", op),
			slog.String("pair", pair.Code()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rate.FetchedAt = c.now()

	c.log.Debug("получена котировка",
		slog.String("pair", pair.Code()),
		slog.String("bid", rate.Bid.String()))

	return rate, nil
}

func (c *httpRateClient) get(ctx context.Context, pair models.CurrencyPair) ([]byte, error) {
	url := c.baseURL + "/" + pair.Code()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", custom_err.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: unexpected status %d: %s",
			custom_err.ErrNetwork, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// classify maps transport errors onto the timeout / network classes.
func (c *httpRateClient) classify(callCtx context.Context, err error) error {
	if errors.Is(err, custom_err.ErrNetwork) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", custom_err.ErrTimeout, c.timeout, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w after %s: %w", custom_err.ErrTimeout, c.timeout, err)
	}
	return fmt.Errorf("%w: %w", custom_err.ErrNetwork, err)
}

func decodeRate(body []byte, pair models.CurrencyPair) (*models.ExchangeRate, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", custom_err.ErrParse, err)
	}

	raw, ok := payload[pair.Key()]
	if !ok || isJSONNull(raw) {
		return nil, fmt.Errorf("%w: key %s missing from response", custom_err.ErrRateUnavailable, pair.Key())
	}

	var detail quoteDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", custom_err.ErrParse, pair.Key(), err)
	}
	if detail.Bid == nil {
		return nil, fmt.Errorf("%w: %s: bid field missing", custom_err.ErrParse, pair.Key())
	}

	bid, err := decimal.NewFromString(strings.TrimSpace(*detail.Bid))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: bid %q: %w", custom_err.ErrParse, pair.Key(), *detail.Bid, err)
	}

	rate := &models.ExchangeRate{
		Pair: pair,
		Bid:  bid,
		Name: detail.Name,
	}
	if !rate.IsUsable() {
		return nil, fmt.Errorf("%w: %s: non-positive bid %s", custom_err.ErrRateUnavailable, pair.Key(), bid)
	}
	return rate, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
