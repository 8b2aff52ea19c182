package session

import (
	"context"
	"errors"

	"golang.org/x/oauth2"

	"github.com/boickle/vayd-enterprise-manager-sub001/pkg/authapi"
)

// ErrNotAuthenticated is returned when an operation needs a session and no
// token pair is available.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// refreshOp is the shared handle for an in-flight renewal. Callers
// synchronize on its identity: the slot in Manager.op holds at most one,
// installed and removed under Manager.mu. It is created when a renewal
// starts, settled exactly once, and never reused.
type refreshOp struct {
	done  chan struct{}
	token string
	err   error
}

// Refresh returns a valid access token, renewing the pair through the
// renewal endpoint when needed. Concurrent callers share one endpoint
// call: the first installs the operation handle and performs the
// exchange, everyone else waits on the same handle. The check and the
// install happen under one mutex hold, so no two exchanges can start in
// the same episode.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	if op := m.op; op != nil {
		m.mu.Unlock()
		return awaitOp(ctx, op)
	}
	op := &refreshOp{done: make(chan struct{})}
	m.op = op
	gen := m.gen
	m.mu.Unlock()

	op.token, op.err = m.doRefresh(ctx, gen)

	// The slot is emptied before waiters are released, so a later
	// authorization failure starts a fresh attempt instead of attaching
	// to a settled one.
	m.mu.Lock()
	m.op = nil
	m.mu.Unlock()
	close(op.done)

	return op.token, op.err
}

func awaitOp(ctx context.Context, op *refreshOp) (string, error) {
	select {
	case <-op.done:
		return op.token, op.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// doRefresh performs one exchange against the renewal endpoint and
// settles the session state accordingly. gen is the session generation
// the episode started under; logout is final, so a settlement that finds
// the generation moved discards its result instead of resurrecting the
// cleared pair.
func (m *Manager) doRefresh(ctx context.Context, gen uint64) (string, error) {
	current, err := m.store.Load()
	if err != nil {
		if m.sessionMoved(gen) {
			return "", ErrNotAuthenticated
		}
		m.endSession(ctx, "token store unreadable")
		return "", err
	}
	if current == nil || current.RefreshToken == "" {
		if m.sessionMoved(gen) {
			return "", ErrNotAuthenticated
		}
		m.log.Warn().Msg("renewal requested without a refresh token")
		m.endSession(ctx, "no refresh token")
		return "", ErrNotAuthenticated
	}

	resp, err := m.api.Refresh(ctx, current.RefreshToken)
	if err != nil {
		if m.sessionMoved(gen) {
			return "", ErrNotAuthenticated
		}
		if renewalRejected(err) {
			// Another context may have rotated the pair while our attempt
			// was in flight; a stale refresh token losing that race is
			// benign as long as a different valid pair is present.
			winner, lerr := m.store.Load()
			if lerr == nil && winner != nil && winner.RefreshToken != "" &&
				winner.RefreshToken != current.RefreshToken {
				m.log.Debug().Msg("renewal rejected but a newer pair is present, adopting it")
				m.scheduler.Arm(winner.AccessToken)
				return winner.AccessToken, nil
			}
		}
		m.log.Warn().Err(err).Msg("token renewal failed, ending session")
		m.endSession(ctx, "renewal failed")
		return "", err
	}

	pair := &oauth2.Token{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if claims := DecodeClaims(resp.AccessToken); claims != nil && claims.ExpiresAt != nil {
		pair.Expiry = claims.ExpiresAt.Time
	}

	// The generation check and the write share one mutex hold: a logout
	// arriving later bumps the generation first and clears the store
	// afterwards, so it removes whatever we wrote here.
	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		m.log.Debug().Msg("renewal settled after logout, discarding new pair")
		return "", ErrNotAuthenticated
	}
	if err := m.store.Store(pair); err != nil {
		m.mu.Unlock()
		m.endSession(ctx, "token store unwritable")
		return "", err
	}
	m.mu.Unlock()

	m.scheduler.Arm(resp.AccessToken)
	if m.sessionMoved(gen) {
		// A logout slipped in between the write and arming the timer.
		m.scheduler.Disarm()
		return "", ErrNotAuthenticated
	}
	m.log.Debug().Msg("access token renewed")
	return resp.AccessToken, nil
}

// sessionMoved reports whether a logout settled the session after the
// renewal episode started under gen.
func (m *Manager) sessionMoved(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen != gen
}

// renewalRejected reports whether the renewal endpoint refused the
// refresh token, as opposed to a transport failure. A success response
// missing either token field counts as a rejection.
func renewalRejected(err error) bool {
	if errors.Is(err, authapi.ErrIncompleteTokenResponse) {
		return true
	}
	var apiErr *authapi.Error
	return errors.As(err, &apiErr) && apiErr.Rejected()
}

// renewNow is the proactive renewal path shared by the scheduler timer
// and in-margin Arm calls. A timer that fires after logout finds no token
// and does nothing; a firing that races an in-flight renewal is already
// being satisfied and must not block on it (Arm runs synchronously inside
// the renewal settling that flight).
func (m *Manager) renewNow() {
	m.mu.Lock()
	inFlight := m.op != nil
	m.mu.Unlock()
	if inFlight || !m.store.HasToken() {
		return
	}
	if _, err := m.Refresh(context.Background()); err != nil {
		m.log.Warn().Err(err).Msg("proactive renewal failed")
	}
}
