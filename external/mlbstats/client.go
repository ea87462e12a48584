package mlbstats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/mlb-standings/internal/platform/logging"
	"github.com/riskibarqy/mlb-standings/internal/platform/resilience"
)

const (
	defaultBaseURL = "https://statsapi.mlb.com/api/v1"

	// Field allowlist sent with every standings request to bound payload
	// size. The provider returns the full record graph otherwise.
	standingsFieldAllowlist = "records," +
		"records.division,records.league,records.season," +
		"records.teamRecords,records.teamRecords.team," +
		"records.teamRecords.streak,records.teamRecords.divisionRank," +
		"records.teamRecords.leagueRank,records.teamRecords.wildCardRank," +
		"records.teamRecords.clinched,records.teamRecords.wins," +
		"records.teamRecords.losses,records.teamRecords.winningPercentage," +
		"records.teamRecords.gamesBack,records.teamRecords.runsScored," +
		"records.teamRecords.runsAllowed,records.teamRecords.runDifferential," +
		"records.teamRecords.lastTen,records.teamRecords.home," +
		"records.teamRecords.away,records.teamRecords.extraInnings," +
		"records.teamRecords.oneRun"

	maxResponseBytes = 6 << 20
)

var errTransient = crerr.New("standings provider transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

// Client fetches raw standings from the stats provider. Retry and backoff
// here are transport concerns; the ranking engine never retries.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.Breaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breakerCfg := resilience.NormalizeBreakerConfig(cfg.CircuitBreaker)
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchStandings issues one standings request for the given season,
// restricted to the configured league identifiers and the field allowlist.
func (c *Client) FetchStandings(ctx context.Context, season int, leagueIDs []int) (StandingsResponse, error) {
	if season <= 0 {
		return StandingsResponse{}, fmt.Errorf("season must be greater than zero")
	}
	if len(leagueIDs) == 0 {
		return StandingsResponse{}, fmt.Errorf("at least one league id is required")
	}

	ids := make([]string, 0, len(leagueIDs))
	for _, id := range leagueIDs {
		ids = append(ids, strconv.Itoa(id))
	}

	query := url.Values{}
	query.Set("leagueId", strings.Join(ids, ","))
	query.Set("season", strconv.Itoa(season))
	query.Set("standingsTypes", "regularSeason")
	query.Set("fields", standingsFieldAllowlist)

	raw, err := c.get(ctx, "/standings", query)
	if err != nil {
		return StandingsResponse{}, fmt.Errorf("fetch standings season=%d: %w", season, err)
	}

	return decodeStandings(raw)
}

// decodeStandings enforces the one schema rule owned by this layer: the
// top-level records container must exist and be list-shaped. Everything
// below that is handed to the normalizer as-is.
func decodeStandings(raw []byte) (StandingsResponse, error) {
	var probe struct {
		Records any `json:"records"`
	}
	if err := sonic.Unmarshal(raw, &probe); err != nil {
		return StandingsResponse{}, crerr.Wrapf(ErrSchema, "response is not a JSON object: %v", err)
	}
	if probe.Records == nil {
		return StandingsResponse{}, crerr.Wrap(ErrSchema, "records container is missing")
	}
	if _, ok := probe.Records.([]any); !ok {
		return StandingsResponse{}, crerr.Wrapf(ErrSchema, "records container is %T, expected a list", probe.Records)
	}

	var out StandingsResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return StandingsResponse{}, crerr.Wrapf(ErrSchema, "decode records: %v", err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "standings provider circuit breaker rejected request", "state", c.breaker.State())
			return nil, crerr.Wrap(ErrTransport, "provider is temporarily unavailable")
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Wrapf(crerr.Mark(ErrTransport, errTransient), "send request: %v", err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(crerr.Mark(ErrTransport, errTransient), "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(crerr.Mark(ErrTransport, errTransient), "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, crerr.Wrapf(ErrTransport, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.Wrap(ErrTransport, "provider request failed")
	}
	c.logger.WarnContext(ctx, "standings provider request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}
