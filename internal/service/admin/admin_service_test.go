package admin

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/garage-bay-booking/internal/model"
	"github.com/iliyamo/garage-bay-booking/internal/repository"
	"github.com/iliyamo/garage-bay-booking/internal/session"
)

// fakeIdentityStore enforces the same exactly-once insert semantics as
// the fixed-primary-key admin_identity table.
type fakeIdentityStore struct {
	mu    sync.Mutex
	ident *model.AdminIdentity
}

func (f *fakeIdentityStore) Get(_ context.Context) (*model.AdminIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ident == nil {
		return nil, repository.ErrNotInitialized
	}
	cp := *f.ident
	return &cp, nil
}

func (f *fakeIdentityStore) Create(_ context.Context, email, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ident != nil {
		return repository.ErrAlreadyInitialized
	}
	f.ident = &model.AdminIdentity{Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	return nil
}

func newTestService() (*Service, *fakeIdentityStore) {
	store := &fakeIdentityStore{}
	auth := session.NewAuthority("test-secret", time.Hour)
	return NewService(store, auth, bcrypt.MinCost), store
}

func TestBootstrapThenLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ok, err := svc.Initialized(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	tok, err := svc.Bootstrap(ctx, "admin@example.com", "hunter22")
	require.NoError(t, err)
	assert.True(t, svc.Validate(tok.Token))

	ok, err = svc.Initialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	login, err := svc.Login(ctx, "hunter22")
	require.NoError(t, err)
	assert.True(t, svc.Validate(login.Token))

	_, err = svc.Login(ctx, "wrong")
	require.ErrorIs(t, err, ErrInvalidCredential)
}

func TestBootstrapWithoutPayload(t *testing.T) {
	svc, store := newTestService()
	_, err := svc.Bootstrap(context.Background(), "", "")
	require.ErrorIs(t, err, ErrBootstrapPayloadMissing)
	assert.Nil(t, store.ident, "a rejected bootstrap must not create an identity")
}

func TestBootstrapTwice(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Bootstrap(ctx, "admin@example.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Bootstrap(ctx, "admin@example.com", "other")
	require.ErrorIs(t, err, repository.ErrAlreadyInitialized)
}

func TestLoginBeforeBootstrap(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Login(context.Background(), "hunter22")
	require.ErrorIs(t, err, repository.ErrNotInitialized)
}

func TestPasswordNeverStoredInPlain(t *testing.T) {
	svc, store := newTestService()
	_, err := svc.Bootstrap(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)
	require.NotNil(t, store.ident)
	assert.NotContains(t, store.ident.PasswordHash, "hunter22")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.ident.PasswordHash), []byte("hunter22")))
}

func TestLogoutRevokesImmediately(t *testing.T) {
	svc, _ := newTestService()
	tok, err := svc.Bootstrap(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)
	require.True(t, svc.Validate(tok.Token))

	svc.Logout(tok.Token)
	assert.False(t, svc.Validate(tok.Token))
}

// N concurrent bootstrap attempts must yield exactly one identity;
// every loser sees ErrAlreadyInitialized.
func TestConcurrentBootstrapExactlyOnce(t *testing.T) {
	const attempts = 16

	svc, store := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Bootstrap(ctx, "admin@example.com", "hunter22")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, losses int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, repository.ErrAlreadyInitialized)
			losses++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, losses)
	require.NotNil(t, store.ident)
}
