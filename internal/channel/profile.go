package channel

import (
	"context"
	"fmt"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

// Profile returns the profile registered under username. The password
// never leaves this package; the returned copy has it blanked.
func (s *Service) Profile(ctx context.Context, username string) (*domain.Profile, error) {
	var profile *domain.Profile
	err := s.view(ctx, func(snap *domain.Snapshot) error {
		p, ok := snap.Profiles[username]
		if !ok {
			return fmt.Errorf("%w: profile %q", domain.ErrNotFound, username)
		}
		cp := *p
		cp.Password = ""
		profile = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile overwrites bio and avatar URL of the session's own
// profile, the way the edit form submits them. Admin only; profiles are
// never deleted.
func (s *Service) UpdateProfile(ctx context.Context, sess domain.Session, bio, profileURL string) error {
	if !sess.LoggedIn() {
		return fmt.Errorf("%w: admin session required", domain.ErrUnauthorized)
	}
	return s.mutate(ctx, func(snap *domain.Snapshot) error {
		p, ok := snap.Profiles[sess.Username]
		if !ok {
			return fmt.Errorf("%w: profile %q", domain.ErrNotFound, sess.Username)
		}
		p.Bio = bio
		p.ProfileURL = profileURL
		return nil
	})
}
