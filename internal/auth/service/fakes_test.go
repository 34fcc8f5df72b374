package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/dharmil18/betterbank-auth-service/internal/auth/domain"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/store"
	"github.com/dharmil18/betterbank-auth-service/internal/auth/store/drivers/sqlite"
	"github.com/dharmil18/betterbank-auth-service/pkg/keycloak"
	"github.com/dharmil18/betterbank-auth-service/pkg/workpool"
	"github.com/stretchr/testify/require"
)

// fakeProvider is an in-memory IdentityProvider.
type fakeProvider struct {
	mu sync.Mutex

	users     []keycloak.User
	lookupErr error

	createResult *keycloak.CreateUserResult
	createErr    error
	onCreate     func(ctx context.Context)

	verifyErr error

	token    *keycloak.TokenResponse
	tokenErr error

	lookups     int
	created     []keycloak.UserRepresentation
	verified    []string
	tokenCalls  int
	createCtxOK bool
}

func (f *fakeProvider) find(match func(keycloak.User) bool) ([]keycloak.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lookups++
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}

	var out []keycloak.User
	for _, u := range f.users {
		if match(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeProvider) FindUsersByUsername(_ context.Context, username string) ([]keycloak.User, error) {
	return f.find(func(u keycloak.User) bool { return u.Username == username })
}

func (f *fakeProvider) FindUsersByEmail(_ context.Context, email string) ([]keycloak.User, error) {
	return f.find(func(u keycloak.User) bool { return u.Email == email })
}

func (f *fakeProvider) CreateUser(ctx context.Context, user keycloak.UserRepresentation) (*keycloak.CreateUserResult, error) {
	if f.onCreate != nil {
		f.onCreate(ctx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.created = append(f.created, user)
	f.createCtxOK = ctx.Err() == nil
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	return &keycloak.CreateUserResult{
		StatusCode: http.StatusCreated,
		Location:   "http://keycloak/admin/realms/betterbank/users/kc-123",
	}, nil
}

func (f *fakeProvider) SendVerifyEmail(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.verified = append(f.verified, userID)
	return f.verifyErr
}

func (f *fakeProvider) PasswordGrant(_ context.Context, _, _ string) (*keycloak.TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tokenCalls++
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	return f.token, nil
}

func (f *fakeProvider) addUser(u keycloak.User) {
	f.mu.Lock()
	f.users = append(f.users, u)
	f.mu.Unlock()
}

func (f *fakeProvider) snapshot() (created []keycloak.UserRepresentation, verified []string, tokenCalls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]keycloak.UserRepresentation(nil), f.created...), append([]string(nil), f.verified...), f.tokenCalls
}

// fakeDispatcher records dispatched requests.
type fakeDispatcher struct {
	mu       sync.Mutex
	requests []domain.RegistrationRequest
	err      error
	onCall   func(domain.RegistrationRequest)
}

func (d *fakeDispatcher) Dispatch(_ context.Context, req domain.RegistrationRequest) (workpool.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err != nil {
		return workpool.Handle{}, d.err
	}
	d.requests = append(d.requests, req)
	if d.onCall != nil {
		d.onCall(req)
	}
	done := make(chan struct{})
	close(done)
	return workpool.Handle{Done: done}, nil
}

func (d *fakeDispatcher) calls() []domain.RegistrationRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.RegistrationRequest(nil), d.requests...)
}

func transportErr() error {
	return &keycloak.Error{Op: "find users by email", Kind: keycloak.KindTransport, Err: context.DeadlineExceeded}
}

func newJournal(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var johnDoe = domain.RegistrationRequest{
	FirstName: "John",
	LastName:  "Doe",
	Email:     "johndoe@test.com",
	Password:  "password123",
}
