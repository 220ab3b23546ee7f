package core

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RequestInterceptor observes or amends requests made by a session. It runs
// before the user-supplied BeforeRequestFn and AfterRequestFn hooks.
type RequestInterceptor interface {
	// BeforeRequest is invoked prior to sending each attempt of a request.
	// Returning an error aborts the request without retrying.
	BeforeRequest(ctx context.Context, r *http.Request) error
	// AfterRequest is invoked once response headers are received, before the
	// body is validated or read.
	AfterRequest(ctx context.Context, r *http.Response) error
}

// Use registers interceptors, which run in registration order.
func (s *Session) Use(interceptors ...RequestInterceptor) {
	s.interceptors = append(s.interceptors, interceptors...)
}

// doBeforeRequest runs interceptors and the config hook for one attempt.
func (s *Session) doBeforeRequest(ctx context.Context, op *operation, r *http.Request) error {
	op.logger.Info("http request start", zap.String("method", r.Method), zap.String("url", redactURL(r.URL.String())))
	op.verbose("Requesting %s", redactURL(r.URL.String()))
	for _, interceptor := range s.interceptors {
		if err := interceptor.BeforeRequest(ctx, r); err != nil {
			return err
		}
	}
	if s.config.BeforeRequestFn != nil {
		return s.config.BeforeRequestFn(ctx, r)
	}
	return nil
}

func (s *Session) doAfterRequest(ctx context.Context, op *operation, r *http.Response, elapsed time.Duration) error {
	op.logger.Info("http request finish",
		zap.Int("status", r.StatusCode),
		zap.Duration("elapsed", elapsed),
		zap.Int64("content_length", r.ContentLength))
	for _, interceptor := range s.interceptors {
		if err := interceptor.AfterRequest(ctx, r); err != nil {
			return err
		}
	}
	if s.config.AfterRequestFn != nil {
		return s.config.AfterRequestFn(ctx, r)
	}
	return nil
}
