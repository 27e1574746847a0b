package tba

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/metrics"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/logging"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/platform/resilience"
	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/usecase"
)

const (
	defaultBaseURL = "https://www.thebluealliance.com/api/v3"
	authKeyHeader  = "X-TBA-Auth-Key"
)

var errTBATransient = crerr.New("tba transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client is a thin read client for The Blue Alliance API v3. Each call is
// a single attempt; the polling cadence upstream owns retries. The API key
// can be swapped at runtime because it lives in the admin-editable config,
// not the environment.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight

	mu     sync.RWMutex
	apiKey string
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
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = strings.TrimSpace(key)
	c.mu.Unlock()
}

func (c *Client) currentAPIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// FetchTeamEventsByYear lists every event the team attends in a season.
func (c *Client) FetchTeamEventsByYear(ctx context.Context, teamKey string, year int) ([]usecase.ExternalEvent, error) {
	teamKey = strings.TrimSpace(teamKey)
	if teamKey == "" {
		return nil, fmt.Errorf("%w: team key is required", usecase.ErrInvalidInput)
	}
	if year <= 0 {
		return nil, fmt.Errorf("%w: year must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload []tbaEvent
	path := fmt.Sprintf("/team/%s/events/%d", teamKey, year)
	if err := c.doJSON(ctx, "team_events", path, &payload); err != nil {
		return nil, fmt.Errorf("fetch team events team=%s year=%d: %w", teamKey, year, err)
	}

	out := make([]usecase.ExternalEvent, 0, len(payload))
	for _, item := range payload {
		out = append(out, item.toExternal())
	}
	return out, nil
}

// FetchTeamEventStatus returns the team's standing at one event. The
// upstream serves a JSON null before the event publishes anything, which
// comes back as (nil, nil) here.
func (c *Client) FetchTeamEventStatus(ctx context.Context, teamKey, eventKey string) (*usecase.ExternalTeamEventStatus, error) {
	teamKey = strings.TrimSpace(teamKey)
	eventKey = strings.TrimSpace(eventKey)
	if teamKey == "" || eventKey == "" {
		return nil, fmt.Errorf("%w: team key and event key are required", usecase.ErrInvalidInput)
	}

	var payload *tbaTeamEventStatus
	path := fmt.Sprintf("/team/%s/event/%s/status", teamKey, eventKey)
	if err := c.doJSON(ctx, "team_event_status", path, &payload); err != nil {
		return nil, fmt.Errorf("fetch team event status team=%s event=%s: %w", teamKey, eventKey, err)
	}
	if payload == nil {
		return nil, nil
	}
	return payload.toExternal(), nil
}

// FetchEventMatches returns the event's full match list.
func (c *Client) FetchEventMatches(ctx context.Context, eventKey string) ([]usecase.ExternalMatch, error) {
	eventKey = strings.TrimSpace(eventKey)
	if eventKey == "" {
		return nil, fmt.Errorf("%w: event key is required", usecase.ErrInvalidInput)
	}

	var payload []tbaMatch
	path := fmt.Sprintf("/event/%s/matches", eventKey)
	if err := c.doJSON(ctx, "event_matches", path, &payload); err != nil {
		return nil, fmt.Errorf("fetch event matches event=%s: %w", eventKey, err)
	}

	out := make([]usecase.ExternalMatch, 0, len(payload))
	for _, item := range payload {
		out = append(out, item.toExternal())
	}
	return out, nil
}

// FetchEventRatings returns the computed efficiency ratings for the event.
// The upstream publishes them only after enough qualification matches, so
// both a 404 and an empty document map to (nil, nil).
func (c *Client) FetchEventRatings(ctx context.Context, eventKey string) (*usecase.ExternalEventRatings, error) {
	eventKey = strings.TrimSpace(eventKey)
	if eventKey == "" {
		return nil, fmt.Errorf("%w: event key is required", usecase.ErrInvalidInput)
	}

	var payload tbaEventOPRs
	path := fmt.Sprintf("/event/%s/oprs", eventKey)
	if err := c.doJSON(ctx, "event_oprs", path, &payload); err != nil {
		if stderrors.Is(err, usecase.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch event ratings event=%s: %w", eventKey, err)
	}
	return payload.toExternal(), nil
}

// FetchTeamEventAwards lists the awards the team won at one event.
func (c *Client) FetchTeamEventAwards(ctx context.Context, teamKey, eventKey string) ([]Award, error) {
	teamKey = strings.TrimSpace(teamKey)
	eventKey = strings.TrimSpace(eventKey)
	if teamKey == "" || eventKey == "" {
		return nil, fmt.Errorf("%w: team key and event key are required", usecase.ErrInvalidInput)
	}

	var payload []tbaAward
	path := fmt.Sprintf("/team/%s/event/%s/awards", teamKey, eventKey)
	if err := c.doJSON(ctx, "team_event_awards", path, &payload); err != nil {
		return nil, fmt.Errorf("fetch team event awards team=%s event=%s: %w", teamKey, eventKey, err)
	}
	return mapAwards(payload), nil
}

// FetchTeamAwardsByYear lists every award the team won in one season.
func (c *Client) FetchTeamAwardsByYear(ctx context.Context, teamKey string, year int) ([]Award, error) {
	teamKey = strings.TrimSpace(teamKey)
	if teamKey == "" {
		return nil, fmt.Errorf("%w: team key is required", usecase.ErrInvalidInput)
	}
	if year <= 0 {
		return nil, fmt.Errorf("%w: year must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload []tbaAward
	path := fmt.Sprintf("/team/%s/awards/%d", teamKey, year)
	if err := c.doJSON(ctx, "team_awards", path, &payload); err != nil {
		return nil, fmt.Errorf("fetch team awards team=%s year=%d: %w", teamKey, year, err)
	}
	return mapAwards(payload), nil
}

func (c *Client) doJSON(ctx context.Context, endpoint, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "tba circuit breaker rejected request", "endpoint", endpoint, "state", c.breaker.State())
			return fmt.Errorf("%w: event data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, endpoint, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isTBACircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode tba payload: %w", err)
	}
	return nil
}

// executeRequest performs exactly one attempt; a failed poll waits for the
// next scheduled pass instead of retrying here.
func (c *Client) executeRequest(ctx context.Context, endpoint, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	apiKey := c.currentAPIKey()
	if apiKey != "" {
		req.Header.Set(authKeyHeader, apiKey)
	}

	c.logger.DebugContext(ctx, "tba request",
		"endpoint", endpoint,
		"curl_preview", buildTBACurlPreview(fullURL, apiKey != ""),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.TBARequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TBARequests.WithLabelValues(endpoint, "0").Inc()
		wrapped := fmt.Errorf("%w: send request: %s", errTBATransient, sanitizeSensitiveText(err.Error(), apiKey))
		c.logger.WarnContext(ctx, "tba request failed", "endpoint", endpoint, "url", fullURL, "error", wrapped)
		return nil, wrapped
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.TBARequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
	if readErr != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errTBATransient, readErr)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: tba status=404 url=%s", usecase.ErrNotFound, fullURL)
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: tba rejected the api key", usecase.ErrUnauthorized)
	case isTransientStatus(resp.StatusCode):
		return nil, fmt.Errorf("%w: tba status=%d body=%s", errTBATransient, resp.StatusCode, abbreviateBody(raw))
	default:
		return nil, fmt.Errorf("tba status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
}

func isTBACircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errTBATransient)
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func buildTBACurlPreview(fullURL string, withAuthKey bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendFlagHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart(shellQuote(fullURL))
	appendFlagHeader("accept: application/json")
	if withAuthKey {
		appendFlagHeader(authKeyHeader + ": ***")
	}

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}
