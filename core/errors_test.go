package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyTransient(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantClass string
		transient bool
	}{
		{"dial timeout", &net.OpError{Op: "dial", Err: timeoutErr{}}, "dial timeout", true},
		{"read timeout", &net.OpError{Op: "read", Err: timeoutErr{}}, "client timeout", true},
		{"refused", fmt.Errorf("get: %w", syscall.ECONNREFUSED), "connection refused", true},
		{"reset", syscall.ECONNRESET, "connection reset", true},
		{"broken pipe", syscall.EPIPE, "broken pipe", true},
		{"unexpected eof", io.ErrUnexpectedEOF, "unexpected EOF", true},
		{"server error", &RequestFailedError{Message: "no"}, "", false},
		{"cancelled", context.Canceled, "", false},
		{"other", errors.New("bad xml"), "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, transient := classifyTransient(tt.err)
			if class != tt.wantClass || transient != tt.transient {
				t.Errorf("classifyTransient() = %q, %v; want %q, %v", class, transient, tt.wantClass, tt.transient)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	nf := fmt.Errorf("wrapped: %w", &NotFoundError{Resource: "sensors", Query: "objid=1"})
	if !IsNotFoundErr(nf) {
		t.Error("IsNotFoundErr() = false for wrapped NotFoundError")
	}
	if _, err := IgnoreNotFound(0, nf); err != nil {
		t.Errorf("IgnoreNotFound() error = %v", err)
	}
	other := errors.New("other")
	if _, err := IgnoreNotFound(0, other); err != other {
		t.Errorf("IgnoreNotFound() dropped %v", other)
	}

	te := &TransientNetworkError{Retries: 2, Class: "connection reset", Err: syscall.ECONNRESET}
	if !errors.Is(te, syscall.ECONNRESET) {
		t.Error("TransientNetworkError should unwrap to its cause")
	}
	want := "connection reset: giving up after 2 retries: connection reset by peer"
	if te.Error() != want {
		t.Errorf("Error() = %q, want %q", te.Error(), want)
	}

	rf := &RequestFailedError{StatusCode: 400, URL: "https://prtg/api/table.xml", Message: "bad"}
	if rf.Error() != "request to https://prtg/api/table.xml failed with status 400: bad" {
		t.Errorf("Error() = %q", rf.Error())
	}
}
