package core

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// ErrStreamConsumed is returned when a stream is iterated a second time.
var ErrStreamConsumed = errors.New("stream has already been consumed")

type NotFoundError struct {
	Resource string
	Query    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource '%s' not found for params '%s'", e.Resource, e.Query)
}

type TooManyRecordsError struct {
	Resource string
	Query    string
	Count    int
}

func (e *TooManyRecordsError) Error() string {
	return fmt.Sprintf("%d records found for resource '%s' with params '%s', expected one", e.Count, e.Resource, e.Query)
}

func IsNotFoundErr(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

// IgnoreNotFound drops a NotFoundError, keeping val.
func IgnoreNotFound[T any](val T, err error) (T, error) {
	if IsNotFoundErr(err) {
		return val, nil
	}
	return val, err
}

func IsTooManyRecordsErr(err error) bool {
	var tooManyRecordsErr *TooManyRecordsError
	return errors.As(err, &tooManyRecordsErr)
}

// RequestFailedError is an error the server reported for a request, as opposed
// to a failure to reach it. It is never retried.
type RequestFailedError struct {
	StatusCode int
	URL        string
	Message    string
	// Source says how the error was detected: "xml", "redirect", "html" or "status".
	Source string
}

func (e *RequestFailedError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %s", e.URL, e.Message)
	}
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Message)
}

func IsRequestFailed(err error) bool {
	var rfErr *RequestFailedError
	return errors.As(err, &rfErr)
}

// TransientNetworkError is returned once the retry budget is exhausted.
type TransientNetworkError struct {
	// Retries is how many times the request was retried.
	Retries int
	// Class names the TransientErrors entry the last failure matched.
	Class string
	Err   error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("%s: giving up after %d retries: %v", e.Class, e.Retries, e.Err)
}

func (e *TransientNetworkError) Unwrap() error {
	return e.Err
}

func IsTransient(err error) bool {
	var tErr *TransientNetworkError
	return errors.As(err, &tErr)
}

// TransientError is a class of network failure that is retried.
type TransientError struct {
	Name  string
	Match func(error) bool
}

// TransientErrors lists the failures retried up to the configured budget. Anything
// else, server-reported errors included, fails the request immediately.
var TransientErrors = []TransientError{
	{Name: "dial timeout", Match: isDialTimeout},
	{Name: "client timeout", Match: isTimeout},
	{Name: "connection refused", Match: func(err error) bool { return errors.Is(err, syscall.ECONNREFUSED) }},
	{Name: "connection reset", Match: func(err error) bool { return errors.Is(err, syscall.ECONNRESET) }},
	{Name: "broken pipe", Match: func(err error) bool { return errors.Is(err, syscall.EPIPE) }},
	{Name: "unexpected EOF", Match: func(err error) bool {
		return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
	}},
}

func isDialTimeout(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial" && opErr.Timeout()
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// classifyTransient returns the name of the first TransientErrors entry err matches.
func classifyTransient(err error) (string, bool) {
	if err == nil || IsRequestFailed(err) {
		return "", false
	}
	for _, te := range TransientErrors {
		if te.Match(err) {
			return te.Name, true
		}
	}
	return "", false
}
