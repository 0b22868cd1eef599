// Package sessions implements the session manager: opaque server-side
// session ids, handed to clients as signed tokens, with a sliding expiry.
package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/audiovote/internal/common"
	"github.com/dmitrijs2005/audiovote/internal/logging"
	"github.com/dmitrijs2005/audiovote/internal/server/auth"
	"github.com/dmitrijs2005/audiovote/internal/server/models"
)

// sessionIDBytes is the entropy of a session id before hex encoding.
const sessionIDBytes = 32

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	log    logging.Logger
	now    func() time.Time
}

func NewManager(store Store, secret []byte, ttl time.Duration, log logging.Logger) *Manager {
	return &Manager{
		store:  store,
		secret: secret,
		ttl:    ttl,
		log:    log.With("module", "sessions"),
		now:    time.Now,
	}
}

// TTL is the sliding lifetime applied on creation and on every resolve.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session for userID and returns the signed token for the
// client together with its expiry.
func (m *Manager) Create(ctx context.Context, userID int64) (string, time.Time, error) {
	id, err := common.MakeRandHexString(sessionIDBytes)
	if err != nil {
		return "", time.Time{}, err
	}

	now := m.now()
	sess := &models.Session{
		Token:     id,
		UserID:    userID,
		Expires:   now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return "", time.Time{}, err
	}

	token, err := auth.SignSessionID(id, m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, sess.Expires, nil
}

// Resolve maps a client token to its user. Malformed, forged, unknown and
// expired tokens give ok=false without an error. A successful resolve moves
// the expiry to now+TTL.
func (m *Manager) Resolve(ctx context.Context, token string) (int64, bool, error) {
	if token == "" {
		return 0, false, nil
	}

	id, err := auth.ParseSessionID(token, m.secret)
	if err != nil {
		m.log.Debug(ctx, "rejected session token", "error", err)
		return 0, false, nil
	}

	sess, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}

	now := m.now()
	if !now.Before(sess.Expires) {
		if err := m.store.Remove(ctx, id); err != nil {
			m.log.Warn(ctx, "failed to remove expired session", "error", err)
		}
		return 0, false, nil
	}

	if err := m.store.Extend(ctx, id, now.Add(m.ttl)); err != nil {
		return 0, false, err
	}
	return sess.UserID, true, nil
}

// Destroy ends the session behind token. It is idempotent.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id, err := auth.ParseSessionID(token, m.secret)
	if err != nil {
		return nil
	}
	return m.store.Remove(ctx, id)
}

// Cleanup removes expired sessions and reports how many were dropped.
func (m *Manager) Cleanup(ctx context.Context) (int64, error) {
	n, err := m.store.PurgeExpired(ctx, m.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.log.Info(ctx, "expired sessions removed", "count", n)
	}
	return n, nil
}

// RunCleanup calls Cleanup every interval until ctx is cancelled.
func (m *Manager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Cleanup(ctx); err != nil {
				m.log.Error(ctx, "session cleanup failed", "error", err)
			}
		}
	}
}
