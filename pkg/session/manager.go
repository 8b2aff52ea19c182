// Package session implements the authenticated session manager embedded
// in the shared HTTP client: it holds the access/refresh token pair,
// transparently renews expired access tokens, deduplicates concurrent
// renewal attempts, replays failed requests once a new token is
// available, proactively schedules renewal from the token expiry, and
// propagates logout across every open context of the same account.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/authapi"
	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/broadcast"
	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/constants"
	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/storage"
)

// AuthAPI is the slice of the credential endpoints the manager drives.
// *authapi.Client satisfies it.
type AuthAPI interface {
	Login(ctx context.Context, creds authapi.Credentials) (authapi.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (authapi.TokenResponse, error)
}

// ManagerConfig holds the injected dependencies of a Manager. Store and
// API are required; everything else has a default.
type ManagerConfig struct {
	Store       storage.TokenStore
	API         AuthAPI
	Broadcaster broadcast.Broadcaster

	// RefreshSkew is the safety margin subtracted from the token expiry
	// when scheduling proactive renewal.
	RefreshSkew time.Duration

	// Now is the clock; injectable for tests.
	Now func() time.Time

	Logger zerolog.Logger

	// OnSessionEnd runs exactly once per logout event in this context,
	// whether the logout originated here or was observed from another
	// context.
	OnSessionEnd func()
}

// Manager owns the session state: the persisted token pair, the proactive
// renewal timer, the single-flight refresh slot, and the cross-context
// logout channel.
type Manager struct {
	store        storage.TokenStore
	api          AuthAPI
	broadcaster  broadcast.Broadcaster
	scheduler    *Scheduler
	log          zerolog.Logger
	now          func() time.Time
	originID     string
	onSessionEnd func()
	unsubscribe  func()

	// mu guards the single-flight slot and the session generation. The
	// generation moves on every logout, local or observed, so a renewal
	// that settles afterwards can tell its episode is stale.
	mu  sync.Mutex
	op  *refreshOp
	gen uint64
}

// NewManager constructs a Manager, subscribes it to the logout channel,
// and resumes a persisted session from a previous process if one exists.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("session: token store required")
	}
	if cfg.API == nil {
		return nil, errors.New("session: auth API client required")
	}
	if cfg.RefreshSkew <= 0 {
		cfg.RefreshSkew = constants.DefaultRefreshSkew
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	m := &Manager{
		store:        cfg.Store,
		api:          cfg.API,
		broadcaster:  cfg.Broadcaster,
		log:          cfg.Logger,
		now:          cfg.Now,
		originID:     uuid.NewString(),
		onSessionEnd: cfg.OnSessionEnd,
	}
	m.scheduler = newScheduler(cfg.RefreshSkew, m.now, m.renewNow, m.log)

	if m.broadcaster != nil {
		unsub, err := m.broadcaster.Subscribe(m.handleBroadcast)
		if err != nil {
			return nil, err
		}
		m.unsubscribe = unsub
	}

	if tok, err := m.store.Load(); err == nil && tok != nil && tok.AccessToken != "" {
		m.scheduler.Arm(tok.AccessToken)
	}

	return m, nil
}

// Login exchanges credentials for a token pair, persists it, and arms the
// proactive renewal timer.
func (m *Manager) Login(ctx context.Context, creds authapi.Credentials) error {
	resp, err := m.api.Login(ctx, creds)
	if err != nil {
		return err
	}

	pair := &oauth2.Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if claims := DecodeClaims(resp.AccessToken); claims != nil && claims.ExpiresAt != nil {
		pair.Expiry = claims.ExpiresAt.Time
	}
	if err := m.store.Store(pair); err != nil {
		return err
	}
	m.scheduler.Arm(resp.AccessToken)
	m.log.Info().Msg("session established")
	return nil
}

// Logout ends the session everywhere: the pair is cleared, the renewal
// timer dies, and every other open context of the account observes the
// broadcast.
func (m *Manager) Logout(ctx context.Context) {
	m.endSession(ctx, "logout requested")
}

// AccessToken returns the current access token, or empty when logged out.
// This is the synchronous store read the request interceptor performs on
// every outgoing call.
func (m *Manager) AccessToken() string {
	tok, err := m.store.Load()
	if err != nil || tok == nil {
		return ""
	}
	return tok.AccessToken
}

// IsAuthenticated reports whether a token pair is persisted.
func (m *Manager) IsAuthenticated() bool {
	return m.store.HasToken()
}

// CurrentClaims returns the unsigned claims of the current access token,
// or nil when logged out or undecodable. For display purposes only.
func (m *Manager) CurrentClaims() *Claims {
	return DecodeClaims(m.AccessToken())
}

// Close detaches the manager from the logout channel and stops the
// renewal timer without ending the session for other contexts.
func (m *Manager) Close() {
	m.scheduler.Disarm()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// endSession is the single teardown path shared by explicit logout,
// renewal failure, and missing-refresh-token failures. It clears the
// store, disarms the scheduler, runs the local session-ended callback,
// and publishes one broadcast event.
func (m *Manager) endSession(ctx context.Context, cause string) {
	m.mu.Lock()
	m.gen++
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear token store")
	}
	m.scheduler.Disarm()
	m.runSessionEnd()

	if m.broadcaster != nil {
		ev := broadcast.Event{ID: uuid.NewString(), Origin: m.originID, At: m.now()}
		if err := m.broadcaster.Publish(ctx, ev); err != nil {
			m.log.Warn().Err(err).Msg("failed to publish logout event")
		}
	}
	m.log.Info().Str("cause", cause).Msg("session ended")
}

// handleBroadcast reacts to a logout observed on the shared channel.
// Observers tear down local state only and never re-publish, so one
// logout produces exactly one event.
func (m *Manager) handleBroadcast(ev broadcast.Event) {
	if ev.Origin == m.originID {
		// Our own logout already ran the local teardown; handling the
		// echoed event would double-fire the callback.
		return
	}
	m.log.Info().Str("event_id", ev.ID).Msg("logout observed from another session context")
	m.mu.Lock()
	m.gen++
	m.mu.Unlock()
	m.scheduler.Disarm()
	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear token store")
	}
	m.runSessionEnd()
}

func (m *Manager) runSessionEnd() {
	if m.onSessionEnd != nil {
		m.onSessionEnd()
	}
}
