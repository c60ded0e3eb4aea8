package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/logger"
	"github.com/osse101/CodeLedger_Go/internal/metrics"
)

// ClientConfig tunes the shared upstream client
type ClientConfig struct {
	UserAgent string
	RPS       float64
	Burst     int

	// OnDemandShare is the fraction of RPS kept for calls made without an admission,
	// so user-initiated syncs never queue behind a sweep
	OnDemandShare float64

	// Transport overrides the pooled default, mostly for tests
	Transport http.RoundTripper
}

// Client is the one HTTP client every adapter goes through. It owns a request budget and a
// circuit breaker per platform and maps transport-level failures onto the domain taxonomy.
type Client struct {
	http          *http.Client
	userAgent     string
	rps           float64
	burst         int
	onDemandShare float64

	mu       sync.Mutex
	limiters map[domain.Platform]*budget
	breakers map[domain.Platform]*gobreaker.CircuitBreaker[*Response]
}

// budget splits one platform's request rate between admitted background work and on-demand calls.
// On-demand calls may borrow idle background tokens; background work never borrows.
type budget struct {
	background *rate.Limiter
	onDemand   *rate.Limiter
}

type admissionKey struct{}

// admission carries request tokens already taken from a platform's background budget
type admission struct {
	platform domain.Platform
	tokens   atomic.Int32
}

// Request describes one upstream call
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// MaxBytes overrides MaxResponseBytes for endpoints known to return large payloads
	MaxBytes int64
}

// Response is a fully read, size-capped upstream response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsRedirect reports a 3xx response; the client never follows redirects
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// NewClient creates the shared client with a connection-pooled transport
func NewClient(cfg ClientConfig) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RPS <= 0 {
		cfg.RPS = DefaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.OnDemandShare <= 0 || cfg.OnDemandShare >= 1 {
		cfg.OnDemandShare = DefaultOnDemandShare
	}
	transport := cfg.Transport
	if transport == nil {
		transport = newTransport()
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:     cfg.UserAgent,
		rps:           cfg.RPS,
		burst:         cfg.Burst,
		onDemandShare: cfg.OnDemandShare,
		limiters:      make(map[domain.Platform]*budget),
		breakers:      make(map[domain.Platform]*gobreaker.CircuitBreaker[*Response]),
	}
}

func newTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     32,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
}

// Admit waits for n request tokens from p's background budget and returns a context that
// spends them in Do. Only ctx bounds the wait, so callers start per-call timeouts afterwards.
func (c *Client) Admit(ctx context.Context, p domain.Platform, n int) (context.Context, error) {
	if n <= 0 {
		return ctx, nil
	}
	l := c.limiter(p).background
	for remaining := n; remaining > 0; {
		step := min(remaining, l.Burst())
		if err := l.WaitN(ctx, step); err != nil {
			return nil, budgetError(ctx, p, err)
		}
		remaining -= step
	}

	a := &admission{platform: p}
	a.tokens.Store(int32(n))
	return context.WithValue(ctx, admissionKey{}, a), nil
}

// wait spends an admitted token when ctx carries one for p. Otherwise the call is on-demand.
func (c *Client) wait(ctx context.Context, p domain.Platform) error {
	b := c.limiter(p)
	if a, ok := ctx.Value(admissionKey{}).(*admission); ok && a.platform == p {
		if a.tokens.Add(-1) >= 0 {
			return nil
		}
		if err := b.background.Wait(ctx); err != nil {
			return budgetError(ctx, p, err)
		}
		return nil
	}

	if b.onDemand.Allow() || b.background.Allow() {
		return nil
	}
	if err := b.onDemand.Wait(ctx); err != nil {
		return budgetError(ctx, p, err)
	}
	return nil
}

// budgetError separates local throttling from a caller that went away
func budgetError(ctx context.Context, p domain.Platform, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%s: %s: %w", p, ErrMsgLimiterWait, ctx.Err())
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(p.String(), metrics.OutcomeThrottled).Inc()
	return fmt.Errorf("%w: %s: %s: %v", domain.ErrThrottled, p, ErrMsgLimiterWait, err)
}

// Do sends req on behalf of platform p. The caller's context bounds the whole call
// including any budget wait. There are no retries.
func (c *Client) Do(ctx context.Context, p domain.Platform, req Request) (*Response, error) {
	if err := c.wait(ctx, p); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.breaker(p).Execute(func() (*Response, error) {
		return c.send(ctx, p, req)
	})
	metrics.UpstreamRequestDuration.WithLabelValues(p.String()).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.UpstreamRequestsTotal.WithLabelValues(p.String(), metrics.OutcomeRejected).Inc()
			logger.FromContext(ctx).Warn(LogMsgBreakerRejected, "platform", p)
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrUpstreamUnavailable, p, ErrMsgCircuitOpen)
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(p.String(), string(domain.KindOf(err))).Inc()
		logger.FromContext(ctx).Debug(LogMsgUpstreamRequestFailed, "platform", p, "url", req.URL, "error", err)
		return nil, err
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(p.String(), metrics.OutcomeOK).Inc()
	return resp, nil
}

// DoJSON sends req and decodes a 200 response body into out
func (c *Client) DoJSON(ctx context.Context, p domain.Platform, req Request, out any) error {
	resp, err := c.Do(ctx, p, req)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus(p, resp.StatusCode)
	}
	return decodeJSON(p, resp.Body, out)
}

func (c *Client) send(ctx context.Context, p domain.Platform, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		// A malformed URL is a programming error, not an outage
		return nil, fmt.Errorf("%s: %s: %w", p, ErrMsgBuildRequest, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set(HeaderUserAgent, c.userAgent)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrUpstreamUnavailable, p, err)
	}
	defer httpResp.Body.Close()

	limit := req.MaxBytes
	if limit <= 0 {
		limit = MaxResponseBytes
	}
	data, err := io.ReadAll(io.LimitReader(httpResp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading body: %v", domain.ErrUpstreamUnavailable, p, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrUpstreamShapeChanged, p, ErrMsgResponseTooLarge)
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}
	if err := classifyStatus(p, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// classifyStatus maps transport-level statuses. Other 4xx are left to the adapter,
// since some platforms report "not found" inside a 400 body.
func classifyStatus(p domain.Platform, resp *Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrHandleNotFound, p)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, p)
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get(HeaderRateLimitRemaining) == "0":
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, p)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s: status %d", domain.ErrUpstreamUnavailable, p, resp.StatusCode)
	}
	return nil
}

func (c *Client) limiter(p domain.Platform) *budget {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.limiters[p]
	if !ok {
		b = &budget{
			background: rate.NewLimiter(rate.Limit(c.rps*(1-c.onDemandShare)), c.burst),
			onDemand:   rate.NewLimiter(rate.Limit(c.rps*c.onDemandShare), c.burst),
		}
		c.limiters[p] = b
	}
	return b
}

func (c *Client) breaker(p domain.Platform) *gobreaker.CircuitBreaker[*Response] {
	c.mu.Lock()
	defer c.mu.Unlock()
	cb, ok := c.breakers[p]
	if !ok {
		cb = newBreaker(p)
		c.breakers[p] = cb
	}
	return cb
}

// BreakerState reports the current breaker state for p
func (c *Client) BreakerState(p domain.Platform) gobreaker.State {
	return c.breaker(p).State()
}

func newBreaker(p domain.Platform) *gobreaker.CircuitBreaker[*Response] {
	name := p.String()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerMaxRequests,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= breakerConsecutiveTrip {
				return true
			}
			if counts.Requests < breakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= breakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Default().Warn(LogMsgBreakerStateChanged, "platform", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: func(err error) bool {
			// The upstream answered; the handle or our quota is the problem, not its health
			return err == nil ||
				errors.Is(err, domain.ErrHandleNotFound) ||
				errors.Is(err, domain.ErrRateLimited) ||
				errors.Is(err, context.Canceled)
		},
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func unexpectedStatus(p domain.Platform, status int) error {
	return fmt.Errorf("%w: %s: %s %d", domain.ErrUpstreamShapeChanged, p, ErrMsgUnexpectedStatus, status)
}

func decodeJSON(p domain.Platform, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %s: %v", domain.ErrUpstreamShapeChanged, p, ErrMsgDecodeFailed, err)
	}
	return nil
}

func jsonHeader() http.Header {
	h := http.Header{}
	h.Set(HeaderAccept, ContentTypeJSON)
	return h
}
