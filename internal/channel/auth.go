package channel

import (
	"context"
	"fmt"
	"strings"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

// Authenticate checks username and password against the admin registry
// and returns an admin session on success. Passwords are compared in
// plaintext; that is how the registry stores them and hardening it is
// explicitly out of scope. A failed attempt changes no state.
func (s *Service) Authenticate(ctx context.Context, username, password string) (domain.Session, error) {
	var sess domain.Session
	err := s.view(ctx, func(snap *domain.Snapshot) error {
		profile, ok := snap.Profiles[username]
		if !ok || profile.Password != password {
			return fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
		}
		sess = domain.Session{Username: username, IsAdmin: true}
		return nil
	})
	return sess, err
}

// Logout clears the session unconditionally. Logging out an anonymous
// session is a no-op.
func (s *Service) Logout(sess domain.Session) domain.Session {
	return domain.Session{}
}

// AddAdmin registers another admin account. Requires an active admin
// session; accounts are only ever added, never removed.
func (s *Service) AddAdmin(ctx context.Context, sess domain.Session, username, password string) error {
	if !sess.LoggedIn() {
		return fmt.Errorf("%w: admin session required", domain.ErrUnauthorized)
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}
	return s.mutate(ctx, func(snap *domain.Snapshot) error {
		if _, ok := snap.Profiles[username]; ok {
			return fmt.Errorf("%w: username %q already registered", domain.ErrValidation, username)
		}
		snap.Profiles[username] = &domain.Profile{Password: password}
		return nil
	})
}
