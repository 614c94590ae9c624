package channel

import (
	"context"
	"fmt"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

// ThemeUpdate carries the theme fields to overwrite; nil fields keep
// their current value.
type ThemeUpdate struct {
	BGColor     *string `json:"bg_color,omitempty"`
	TextColor   *string `json:"text_color,omitempty"`
	ChannelName *string `json:"channel_name,omitempty"`
}

// Theme returns the current display configuration.
func (s *Service) Theme(ctx context.Context) (domain.ChatTheme, error) {
	var theme domain.ChatTheme
	err := s.view(ctx, func(snap *domain.Snapshot) error {
		theme = snap.ChatTheme
		return nil
	})
	return theme, err
}

// SetTheme overwrites the supplied fields of the theme and returns the
// new full record. Admin only. Supplied fields must be non-empty; their
// values are otherwise not validated.
func (s *Service) SetTheme(ctx context.Context, sess domain.Session, upd ThemeUpdate) (domain.ChatTheme, error) {
	var theme domain.ChatTheme
	if !sess.LoggedIn() {
		return theme, fmt.Errorf("%w: admin session required", domain.ErrUnauthorized)
	}
	for name, field := range map[string]*string{
		"bg_color":     upd.BGColor,
		"text_color":   upd.TextColor,
		"channel_name": upd.ChannelName,
	} {
		if field != nil && *field == "" {
			return theme, fmt.Errorf("%w: %s must not be empty", domain.ErrValidation, name)
		}
	}

	err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		if upd.BGColor != nil {
			snap.ChatTheme.BGColor = *upd.BGColor
		}
		if upd.TextColor != nil {
			snap.ChatTheme.TextColor = *upd.TextColor
		}
		if upd.ChannelName != nil {
			snap.ChatTheme.ChannelName = *upd.ChannelName
		}
		theme = snap.ChatTheme
		return nil
	})
	if err != nil {
		return domain.ChatTheme{}, err
	}
	return theme, nil
}
