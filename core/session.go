package core

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"sync"
	"time"

	version "github.com/hashicorp/go-version"
	"go.uber.org/zap"

	"github.com/lordmilko/PrtgAPI-sub005/query"
	"github.com/lordmilko/PrtgAPI-sub005/serde"
)

const (
	StrategyInterpreted = "interpreted"
	StrategyCompiled    = "compiled"
)

// Session executes requests against one server: it encodes parameters,
// authenticates, retries transient failures and detects server-reported errors.
type Session struct {
	config   *PRTGConfig
	client   *http.Client
	baseURL  *urlpkg.URL
	logger   *zap.Logger
	events   *Events
	strategy serde.Strategy
	auth     *authenticator
	sleep    func(context.Context, time.Duration) error

	interceptors []RequestInterceptor

	versionMu sync.Mutex
	version   *version.Version
}

// NewSession validates config with DefaultValidators and builds a session. The
// pass-hash, when needed, is obtained lazily on the first request.
func NewSession(config *PRTGConfig) (*Session, error) {
	if err := config.Validate(DefaultValidators()...); err != nil {
		return nil, err
	}
	baseURL, err := config.BaseURL()
	if err != nil {
		return nil, err
	}
	logger, err := NewLogger(config)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !config.SslVerify}
	transport.MaxConnsPerHost = config.MaxConnections
	transport.IdleConnTimeout = *config.Timeout
	client := &http.Client{
		Transport: transport,
		Timeout:   *config.Timeout,
		// Error pages are reported through redirects, which must be seen rather than followed.
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	strategy := serde.Interpreted
	if config.Strategy == StrategyCompiled {
		strategy = serde.Compiled
	}

	s := &Session{
		config:   config,
		client:   client,
		baseURL:  baseURL,
		logger:   logger,
		events:   &Events{},
		strategy: strategy,
		sleep:    sleepContext,
	}
	s.auth = newAuthenticator(s)
	return s, nil
}

func (s *Session) Config() *PRTGConfig { return s.config }

func (s *Session) Logger() *zap.Logger { return s.logger }

// Events exposes OnRetry and OnVerboseLog subscriptions.
func (s *Session) Events() *Events { return s.events }

// Strategy is the deserializer selected by the config.
func (s *Session) Strategy() serde.Strategy { return s.strategy }

func (s *Session) context(ctx context.Context) context.Context {
	if ctx == nil {
		if s.config.Context != nil {
			return s.config.Context
		}
		return context.Background()
	}
	return ctx
}

// Fetch requests endpoint and returns the whole body. Failures while reading
// the body are retried like failures to connect.
func (s *Session) Fetch(ctx context.Context, endpoint string, params *query.ParameterSet) ([]byte, error) {
	ctx = s.context(ctx)
	op := newOperation(s.logger, s.events, endpoint)
	return withRetries(ctx, s, op, endpoint, params, func(ctx context.Context, url string) attemptResult[[]byte] {
		resp, body, err := s.send(ctx, op, url)
		if err != nil {
			return failed[[]byte](err)
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(body)
		if err != nil {
			return failed[[]byte](fmt.Errorf("read response body: %w", err))
		}
		op.logger.Debug("http response body read", zap.Int("bytes", len(data)))
		return attemptResult[[]byte]{value: data}
	})
}

// Open requests endpoint and returns the body for the caller to consume
// incrementally. Only failures up to the response headers are retried.
func (s *Session) Open(ctx context.Context, endpoint string, params *query.ParameterSet) (io.ReadCloser, error) {
	ctx = s.context(ctx)
	op := newOperation(s.logger, s.events, endpoint)
	return withRetries(ctx, s, op, endpoint, params, func(ctx context.Context, url string) attemptResult[io.ReadCloser] {
		resp, body, err := s.send(ctx, op, url)
		if err != nil {
			return failed[io.ReadCloser](err)
		}
		return attemptResult[io.ReadCloser]{value: readCloser{Reader: body, Closer: resp.Body}}
	})
}

type readCloser struct {
	io.Reader
	io.Closer
}

// attemptResult is the outcome of one attempt. Retryable failures go around
// the loop again while budget remains.
type attemptResult[T any] struct {
	value     T
	err       error
	retryable bool
	class     string
}

func failed[T any](err error) attemptResult[T] {
	class, transient := classifyTransient(err)
	return attemptResult[T]{err: err, retryable: transient, class: class}
}

// withRetries runs attempt until it succeeds, fails permanently or exhausts
// the retry budget. With a budget of n there are at most n+1 attempts and
// exactly n OnRetry notifications before a TransientNetworkError.
func withRetries[T any](
	ctx context.Context,
	s *Session,
	op *operation,
	endpoint string,
	params *query.ParameterSet,
	attempt func(context.Context, string) attemptResult[T],
) (T, error) {
	var zero T
	if err := s.auth.ensure(ctx); err != nil {
		return zero, err
	}
	rawQuery, err := s.auth.encoder().Encode(params)
	if err != nil {
		return zero, err
	}
	url := buildURL(s.baseURL, endpoint, rawQuery)

	budget := *s.config.RetryCount
	var last attemptResult[T]
	for i := 0; i <= budget; i++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		last = attempt(ctx, url)
		if last.err == nil {
			return last.value, nil
		}
		if !last.retryable || ctx.Err() != nil {
			return zero, last.err
		}
		if i == budget {
			break
		}

		ev := RetryEvent{Remaining: budget - i - 1, Attempt: i + 1, URL: redactURL(url), Err: last.err}
		op.logger.Warn("transient failure, retrying",
			zap.String("class", last.class),
			zap.Int("attempt", ev.Attempt),
			zap.Int("remaining", ev.Remaining),
			zap.Error(last.err))
		op.verbose("Retrying request (%d retries remaining): %v", ev.Remaining, last.err)
		s.events.emitRetry(ev)

		if err := s.sleep(ctx, *s.config.RetryDelay); err != nil {
			return zero, err
		}
	}
	return zero, &TransientNetworkError{Retries: budget, Class: last.class, Err: last.err}
}

// send performs one HTTP round trip and validates the response. On success the
// caller owns resp.Body and reads it through body.
func (s *Session) send(ctx context.Context, op *operation, url string) (*http.Response, io.Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set(HeaderUserAgent, s.config.UserAgent)
	req.Header.Set(HeaderAccept, ContentTypeXML)

	if err = s.doBeforeRequest(ctx, op, req); err != nil {
		return nil, nil, err
	}
	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to perform GET request to %s: %w", redactURL(url), stripURLError(err))
	}
	if err = s.doAfterRequest(ctx, op, resp, time.Since(start)); err != nil {
		resp.Body.Close()
		return nil, nil, err
	}
	body, err := validateResponse(resp, redactURL(url))
	if err != nil {
		resp.Body.Close()
		return nil, nil, err
	}
	return resp, body, nil
}

// stripURLError unwraps *url.Error, whose message repeats the unredacted URL.
func stripURLError(err error) error {
	var urlErr *urlpkg.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// serverError converts an error document decoded from a successful response
// into a RequestFailedError.
func (s *Session) serverError(err error, endpoint string) error {
	var resp *serde.ErrorResponse
	if errors.As(err, &resp) {
		return &RequestFailedError{
			URL:     buildURL(s.baseURL, endpoint, ""),
			Message: resp.Message,
			Source:  "xml",
		}
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
