package sleeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Config holds provider client configuration
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RequestsPerSec float64       `yaml:"requests_per_sec"`
	Burst          int           `yaml:"burst"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"`
}

// DefaultConfig returns provider defaults tuned to Sleeper's public limits.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://api.sleeper.app/v1",
		RequestTimeout: 10 * time.Second,
		RequestsPerSec: 10,
		Burst:          5,
		MaxRetries:     3,
		RetryBackoff:   500 * time.Millisecond,
	}
}

// Client is a rate-limited, circuit-broken HTTP client for a Sleeper-style
// league API. Transient failures (timeouts, 429s, 5xx) are retried here so
// that the engine downstream sees either well-formed records or a fetch
// error, never a partial payload.
type Client struct {
	config  Config
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a provider client.
func NewClient(config Config) *Client {
	settings := gobreaker.Settings{
		Name:        "sleeper",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("provider circuit breaker state change")
		},
	}

	return &Client{
		config:  config,
		http:    &http.Client{Timeout: config.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSec), config.Burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// GetLeague fetches the league settings record.
func (c *Client) GetLeague(ctx context.Context, leagueID string) (*League, error) {
	var league League
	if err := c.get(ctx, fmt.Sprintf("/league/%s", leagueID), &league); err != nil {
		return nil, fmt.Errorf("failed to fetch league %s: %w", leagueID, err)
	}
	return &league, nil
}

// GetRosters fetches the current roster snapshot for every team.
func (c *Client) GetRosters(ctx context.Context, leagueID string) ([]Roster, error) {
	var rosters []Roster
	if err := c.get(ctx, fmt.Sprintf("/league/%s/rosters", leagueID), &rosters); err != nil {
		return nil, fmt.Errorf("failed to fetch rosters for league %s: %w", leagueID, err)
	}
	return rosters, nil
}

// GetUsers fetches the league members for team display names.
func (c *Client) GetUsers(ctx context.Context, leagueID string) ([]User, error) {
	var users []User
	if err := c.get(ctx, fmt.Sprintf("/league/%s/users", leagueID), &users); err != nil {
		return nil, fmt.Errorf("failed to fetch users for league %s: %w", leagueID, err)
	}
	return users, nil
}

// GetTransactions fetches one week's transactions.
func (c *Client) GetTransactions(ctx context.Context, leagueID string, week int) ([]Transaction, error) {
	var txs []Transaction
	if err := c.get(ctx, fmt.Sprintf("/league/%s/transactions/%d", leagueID, week), &txs); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for league %s week %d: %w", leagueID, week, err)
	}
	return txs, nil
}

// GetTransactionWindow fetches transactions across a span of weeks, newest
// week first, concatenated. Weeks with no transactions return empty slices,
// not errors.
func (c *Client) GetTransactionWindow(ctx context.Context, leagueID string, fromWeek, toWeek int) ([]Transaction, error) {
	var all []Transaction
	for week := toWeek; week >= fromWeek; week-- {
		txs, err := c.GetTransactions(ctx, leagueID, week)
		if err != nil {
			return nil, err
		}
		all = append(all, txs...)
	}
	return all, nil
}

// GetTradedPicks fetches every traded draft pick in the league.
func (c *Client) GetTradedPicks(ctx context.Context, leagueID string) ([]TradedPick, error) {
	var picks []TradedPick
	if err := c.get(ctx, fmt.Sprintf("/league/%s/traded_picks", leagueID), &picks); err != nil {
		return nil, fmt.Errorf("failed to fetch traded picks for league %s: %w", leagueID, err)
	}
	return picks, nil
}

// GetPlayers fetches the full player directory. The payload is large; callers
// should cache it across sync runs.
func (c *Client) GetPlayers(ctx context.Context) (map[string]Player, error) {
	var players map[string]Player
	if err := c.get(ctx, "/players/nfl", &players); err != nil {
		return nil, fmt.Errorf("failed to fetch player directory: %w", err)
	}
	return players, nil
}

// get performs one rate-limited GET through the circuit breaker, retrying
// transient failures with linear backoff.
func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * c.config.RetryBackoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		body, err := c.breaker.Execute(func() (interface{}, error) {
			return c.doGET(ctx, path)
		})
		if err != nil {
			lastErr = err
			if !retryable(err) {
				return err
			}
			log.Debug().Err(err).Str("path", path).Int("attempt", attempt+1).
				Msg("provider request failed, retrying")
			continue
		}

		if err := json.Unmarshal(body.([]byte), dest); err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("provider request exhausted retries: %w", lastErr)
}

func (c *Client) doGET(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return io.ReadAll(resp.Body)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &transientError{status: resp.StatusCode}
	default:
		return nil, fmt.Errorf("provider returned status %d for %s", resp.StatusCode, path)
	}
}

type transientError struct {
	status int
}

func (e *transientError) Error() string {
	return fmt.Sprintf("transient provider error: status %d", e.status)
}

func retryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var transient *transientError
	if errors.As(err, &transient) {
		return true
	}
	// Plain transport errors (timeouts, resets) are worth one more try.
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
