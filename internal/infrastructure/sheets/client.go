package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/techchoose/backend/internal/domain"
)

// maxBodyBytes bounds the size of a published export we are willing to read
const maxBodyBytes = 8 << 20

// ClientConfig configures the spreadsheet export client
type ClientConfig struct {
	SourceURL         string
	Timeout           time.Duration
	RequestsPerMinute int
	MaxAttempts       int
	// FailureThreshold is the number of consecutive failed fetches that opens the breaker
	FailureThreshold uint32
	BreakerTimeout   time.Duration
}

// Client fetches a published spreadsheet CSV export
type Client struct {
	httpClient  *http.Client
	sourceURL   string
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker[[]domain.RawRow]
	maxAttempts int
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a new spreadsheet export client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}

	logger = logger.Named("sheets")

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		sourceURL:   cfg.SourceURL,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute),
		maxAttempts: cfg.MaxAttempts,
		backoff:     exponentialBackoff,
		logger:      logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]domain.RawRow](gobreaker.Settings{
		Name:    "catalog-sheet",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// A caller giving up says nothing about the sheet
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c
}

// exponentialBackoff returns the wait before retrying the given 1-based attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// BreakerState reports the circuit breaker state for monitoring
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// FetchRows downloads and parses the export. Failures are wrapped in ErrSheetFetchFailure
// or ErrMalformedCatalog; an open breaker fails fast.
func (c *Client) FetchRows(ctx context.Context) ([]domain.RawRow, error) {
	rows, err := c.breaker.Execute(func() ([]domain.RawRow, error) {
		rows, err := c.fetchWithRetry(ctx)
		if err != nil && ctx.Err() != nil {
			// transport and limiter errors hide the context error; surface it
			return nil, fmt.Errorf("%w: %w", domain.ErrSheetFetchFailure, ctx.Err())
		}
		return rows, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", domain.ErrSheetFetchFailure, err)
	}
	return rows, err
}

func (c *Client) fetchWithRetry(ctx context.Context) ([]domain.RawRow, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		rows, retry, err := c.fetchOnce(ctx)
		if err == nil {
			c.logger.Debug("fetched catalog export", zap.Int("rows", len(rows)), zap.Int("attempt", attempt))
			return rows, nil
		}

		lastErr = err
		if !retry || attempt == c.maxAttempts {
			break
		}

		c.logger.Warn("catalog fetch failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.backoff(attempt)):
		}
	}

	c.logger.Error("catalog fetch failed", zap.String("url", c.sourceURL), zap.Error(lastErr))
	return nil, lastErr
}

// fetchOnce performs a single GET; the bool reports whether the failure is worth retrying
func (c *Client) fetchOnce(ctx context.Context) ([]domain.RawRow, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to create request: %v", domain.ErrSheetFetchFailure, err)
	}
	req.Header.Set("User-Agent", "TechChoose/1.0")
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("%w: %v", domain.ErrSheetFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		retry := resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("%w: status %d", domain.ErrSheetFetchFailure, resp.StatusCode)
	}

	rows, err := ParseCSV(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, false, err
	}
	return rows, false, nil
}
