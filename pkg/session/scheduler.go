package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler arms a one-shot timer that renews the access token shortly
// before it expires. At most one timer is live at a time, even under
// rapid successive Arm calls.
type Scheduler struct {
	skew  time.Duration
	now   func() time.Time
	renew func()
	// after creates the one-shot timer; injectable alongside now so
	// tests can drive the whole schedule hermetically.
	after func(time.Duration, func()) *time.Timer
	log   zerolog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

func newScheduler(skew time.Duration, now func() time.Time, renew func(), log zerolog.Logger) *Scheduler {
	return &Scheduler{skew: skew, now: now, renew: renew, after: time.AfterFunc, log: log}
}

// Arm replaces any pending timer with one derived from the token's expiry
// claim. A token without a decodable expiry arms nothing. A token already
// inside the safety margin triggers renewal synchronously instead of
// arming a zero-delay timer, closing the window where an expired token
// could still be read by a concurrent request.
func (s *Scheduler) Arm(accessToken string) {
	s.mu.Lock()
	s.stopLocked()

	claims := DecodeClaims(accessToken)
	if claims == nil || claims.ExpiresAt == nil {
		s.mu.Unlock()
		return
	}

	fireIn := claims.ExpiresAt.Time.Sub(s.now()) - s.skew
	if fireIn > 0 {
		s.timer = s.after(fireIn, s.renew)
		s.mu.Unlock()
		s.log.Debug().Dur("fire_in", fireIn).Msg("proactive renewal scheduled")
		return
	}
	s.mu.Unlock()

	s.log.Debug().Msg("access token inside refresh margin, renewing now")
	s.renew()
}

// Disarm cancels any pending timer. Safe to call when nothing is armed.
func (s *Scheduler) Disarm() {
	s.mu.Lock()
	s.stopLocked()
	s.mu.Unlock()
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
