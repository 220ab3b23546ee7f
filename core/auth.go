package core

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/lordmilko/PrtgAPI-sub005/query"
)

const passHashEndpoint = "api/getpasshash.htm"

var (
	// passHashes caches acquired pass-hashes by server and username so sessions
	// for the same account share one acquisition.
	passHashes     sync.Map
	passHashLocker = NewKeyLocker()
)

// authenticator supplies the credentials for every request, acquiring a
// pass-hash from the password on first use when none is configured.
type authenticator struct {
	session *Session
	mu      sync.RWMutex
	creds   query.Credentials
}

func newAuthenticator(s *Session) *authenticator {
	return &authenticator{
		session: s,
		creds: query.Credentials{
			Username: s.config.Username,
			PassHash: s.config.PassHash,
			Password: s.config.Password,
		},
	}
}

func (a *authenticator) cacheKey() []string {
	return []string{a.session.baseURL.String(), a.session.config.Username}
}

func (a *authenticator) credentials() query.Credentials {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.creds
}

func (a *authenticator) encoder() *query.Encoder {
	return query.NewEncoder(a.credentials())
}

// ensure makes sure a pass-hash is available, requesting one at most once per
// server and username.
func (a *authenticator) ensure(ctx context.Context) error {
	if a.credentials().PassHash != "" {
		return nil
	}
	key := a.cacheKey()
	cacheKey := strings.Join(key, "|")
	if hash, ok := passHashes.Load(cacheKey); ok {
		a.setPassHash(hash.(string))
		return nil
	}

	unlock, err := passHashLocker.LockContext(ctx, key...)
	if err != nil {
		return err
	}
	defer unlock()

	if hash, ok := passHashes.Load(cacheKey); ok {
		a.setPassHash(hash.(string))
		return nil
	}
	hash, err := a.acquire(ctx)
	if err != nil {
		return err
	}
	passHashes.Store(cacheKey, hash)
	a.setPassHash(hash)
	return nil
}

func (a *authenticator) setPassHash(hash string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.creds.PassHash = hash
}

// acquire exchanges the password for a pass-hash. The response body is the
// bare hash.
func (a *authenticator) acquire(ctx context.Context) (string, error) {
	s := a.session
	op := newOperation(s.logger, s.events, passHashEndpoint)
	op.verbose("Requesting pass-hash for user %s", s.config.Username)

	rawQuery, err := query.NewEncoder(a.credentials()).Encode(nil)
	if err != nil {
		return "", err
	}
	url := buildURL(s.baseURL, passHashEndpoint, rawQuery)
	resp, body, err := s.send(ctx, op, url)
	if err != nil {
		return "", fmt.Errorf("acquire pass-hash: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("acquire pass-hash: %w", err)
	}
	hash := strings.TrimSpace(string(data))
	if hash == "" || strings.ContainsAny(hash, "<> ") {
		return "", &RequestFailedError{
			StatusCode: resp.StatusCode,
			URL:        redactURL(url),
			Message:    "server did not return a pass-hash",
			Source:     "status",
		}
	}
	op.logger.Debug("pass-hash acquired", zap.String("username", s.config.Username))
	return hash, nil
}
