package core

import (
	"bytes"
	"context"
	"fmt"

	version "github.com/hashicorp/go-version"

	"github.com/lordmilko/PrtgAPI-sub005/query"
	"github.com/lordmilko/PrtgAPI-sub005/serde"
)

const clientVersion = "0.4.0"

func ClientVersion() string {
	return clientVersion
}

// VersionError is returned when a resource needs a newer server than the one connected to.
type VersionError struct {
	Resource string
	Required *version.Version
	Actual   *version.Version
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s requires server version %s or later, server is %s", e.Resource, e.Required, e.Actual)
}

// statusVersion is the subset of getstatus.xml needed to gate resources.
type statusVersion struct {
	Version string `prtg:"Version" required:"true"`
}

// FetchStatus requests the server status document and decodes it into T.
// An error document is reported as a RequestFailedError.
func FetchStatus[T any](ctx context.Context, s *Session) (T, error) {
	var zero T
	params := query.NewParameterSet().Set(query.ID, 0)
	body, err := s.Fetch(ctx, EndpointStatus, params)
	if err != nil {
		return zero, err
	}
	status, err := serde.DecodeDocument[T](bytes.NewReader(body), s.strategy)
	if err != nil {
		return zero, s.serverError(err, EndpointStatus)
	}
	return status, nil
}

// ParseServerVersion parses a server version such as "23.1.82.2074+", which
// may carry a trailing marker.
func ParseServerVersion(raw string) (*version.Version, error) {
	for len(raw) > 0 && (raw[len(raw)-1] == '+' || raw[len(raw)-1] == ' ') {
		raw = raw[:len(raw)-1]
	}
	return version.NewVersion(raw)
}

// ServerVersion fetches the server version and caches it for the session.
// Failures are not cached.
func (s *Session) ServerVersion(ctx context.Context) (*version.Version, error) {
	s.versionMu.Lock()
	defer s.versionMu.Unlock()
	if s.version != nil {
		return s.version, nil
	}

	status, err := FetchStatus[statusVersion](ctx, s)
	if err != nil {
		return nil, err
	}
	v, err := ParseServerVersion(status.Version)
	if err != nil {
		return nil, fmt.Errorf("parse server version %q: %w", status.Version, err)
	}
	s.version = v
	return v, nil
}

// checkVersion fails with a VersionError when the server is older than minimum.
func (s *Session) checkVersion(ctx context.Context, resource string, minimum *version.Version) error {
	if minimum == nil {
		return nil
	}
	actual, err := s.ServerVersion(ctx)
	if err != nil {
		return err
	}
	if actual.LessThan(minimum) {
		return &VersionError{Resource: resource, Required: minimum, Actual: actual}
	}
	return nil
}
