// Package guard keeps at most one account creation in flight per email.
//
// Keys are email fingerprints (see cryptox.Fingerprint). A key is held from
// dispatch until the background task finishes, or until the TTL runs out if
// the holder disappears without releasing it. Every hold carries an owner
// token so a holder whose TTL lapsed can neither free nor extend a key that
// someone else has taken since.
package guard

import (
	"context"
	"sync"
	"time"

	"github.com/dharmil18/betterbank-auth-service/pkg/idx"
)

// DefaultTTL bounds how long a key stays held without a release.
const DefaultTTL = 2 * time.Minute

// DispatchGuard is implemented by Memory and Redis.
type DispatchGuard interface {
	// Acquire reports whether key was free. When it was, the key is now held
	// and token identifies the hold.
	Acquire(ctx context.Context, key string) (token string, ok bool, err error)
	// Extend restarts the TTL of a hold. A hold that already expired is taken
	// again if nobody else has the key. It reports false when another token
	// holds the key.
	Extend(ctx context.Context, key, token string) (bool, error)
	// Release frees key if token still holds it. Anything else is a no-op.
	Release(ctx context.Context, key, token string) error
}

type hold struct {
	token  string
	expiry time.Time
}

// Memory is a process-local guard. It is enough for a single replica.
type Memory struct {
	TTL time.Duration

	mu   sync.Mutex
	held map[string]hold
	now  func() time.Time
}

// NewMemory returns a Memory guard with the given TTL, or DefaultTTL when
// ttl is not positive.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{TTL: ttl, held: make(map[string]hold), now: time.Now}
}

func (m *Memory) Acquire(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if h, ok := m.held[key]; ok && now.Before(h.expiry) {
		return "", false, nil
	}

	token := idx.New().String()
	m.held[key] = hold{token: token, expiry: now.Add(m.TTL)}
	return token, true, nil
}

func (m *Memory) Extend(_ context.Context, key, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if h, ok := m.held[key]; ok && h.token != token && now.Before(h.expiry) {
		return false, nil
	}

	m.held[key] = hold{token: token, expiry: now.Add(m.TTL)}
	return true, nil
}

func (m *Memory) Release(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.held[key]; ok && h.token == token {
		delete(m.held, key)
	}
	return nil
}

// Len reports how many keys are held, expired or not. Tests use it to check
// that nothing leaks.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.held)
}
