package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/authapi"
	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/broadcast"
	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/storage"
)

// The scheduler tests arm timers at sub-second offsets; keep that
// precision through the encode/decode round trip instead of the
// library's default whole-second truncation.
func init() {
	jwt.TimePrecision = time.Millisecond
}

// testToken mints a parseable access token with the given expiry. The
// signing key is irrelevant: the session manager never verifies it.
func testToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"exp": float64(exp.UnixMilli()) / 1000, "role": "doctor"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

// testTokenNoExpiry mints a parseable token without an exp claim.
func testTokenNoExpiry(t *testing.T) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "doctor"}).
		SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

// fakeAPI is an in-memory AuthAPI with scriptable outcomes.
type fakeAPI struct {
	mu           sync.Mutex
	loginResp    authapi.TokenResponse
	loginErr     error
	refreshFn    func(refreshToken string) (authapi.TokenResponse, error)
	refreshDelay time.Duration

	loginCalls   int32
	refreshCalls int32
}

func (f *fakeAPI) Login(_ context.Context, _ authapi.Credentials) (authapi.TokenResponse, error) {
	atomic.AddInt32(&f.loginCalls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Refresh(_ context.Context, refreshToken string) (authapi.TokenResponse, error) {
	atomic.AddInt32(&f.refreshCalls, 1)
	if f.refreshDelay > 0 {
		time.Sleep(f.refreshDelay)
	}
	f.mu.Lock()
	fn := f.refreshFn
	f.mu.Unlock()
	if fn == nil {
		return authapi.TokenResponse{}, &authapi.Error{Status: 401, Body: "no refresh scripted"}
	}
	return fn(refreshToken)
}

func (f *fakeAPI) refreshCount() int {
	return int(atomic.LoadInt32(&f.refreshCalls))
}

type testEnv struct {
	store    *storage.MemoryStore
	api      *fakeAPI
	bus      *broadcast.MemoryBroadcaster
	endCount int32
	mgr      *Manager
}

func (e *testEnv) sessionEnds() int {
	return int(atomic.LoadInt32(&e.endCount))
}

func newTestEnv(t *testing.T, opts ...func(*ManagerConfig)) *testEnv {
	t.Helper()
	env := &testEnv{
		store: storage.NewMemoryStore(),
		api:   &fakeAPI{},
		bus:   broadcast.NewMemoryBroadcaster(),
	}
	cfg := ManagerConfig{
		Store:       env.store,
		API:         env.api,
		Broadcaster: env.bus,
		Logger:      zerolog.Nop(),
		OnSessionEnd: func() {
			atomic.AddInt32(&env.endCount, 1)
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	mgr, err := NewManager(cfg)
	require.NoError(t, err)
	t.Cleanup(mgr.Close)
	env.mgr = mgr
	return env
}

func seedPair(t *testing.T, store *storage.MemoryStore, access, refresh string) {
	t.Helper()
	require.NoError(t, store.Store(&oauth2.Token{AccessToken: access, RefreshToken: refresh}))
}
