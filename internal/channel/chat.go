package channel

import (
	"context"
	"fmt"
	"strings"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

// ChatWindow is the display window of the chat: Recent never returns
// more than this many messages. The log itself is unbounded.
const ChatWindow = 50

// SendMessage appends a chat message. Admin sessions post under the
// fixed admin name; everyone else needs a nickname. The message is also
// published to live websocket subscribers.
func (s *Service) SendMessage(ctx context.Context, sess domain.Session, nickname, body string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrValidation)
	}
	if sess.LoggedIn() {
		nickname = domain.AdminName
	} else if strings.TrimSpace(nickname) == "" {
		return nil, fmt.Errorf("%w: nickname is required", domain.ErrValidation)
	}

	var msg *domain.ChatMessage
	err := s.mutate(ctx, func(snap *domain.Snapshot) error {
		msg = &domain.ChatMessage{
			Nickname: nickname,
			Message:  body,
			Time:     s.now().Format(domain.ChatTimeLayout),
			IsAdmin:  sess.LoggedIn(),
		}
		snap.Chat = append(snap.Chat, msg)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(msg)
	}
	return msg, nil
}

// RecentMessages returns the last limit messages, newest first. limit
// values outside (0, ChatWindow] fall back to ChatWindow; the window is
// a deployment constant, not user input.
func (s *Service) RecentMessages(ctx context.Context, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 || limit > ChatWindow {
		limit = ChatWindow
	}

	var out []*domain.ChatMessage
	err := s.view(ctx, func(snap *domain.Snapshot) error {
		chat := snap.Chat
		if len(chat) > limit {
			chat = chat[len(chat)-limit:]
		}
		out = make([]*domain.ChatMessage, 0, len(chat))
		for i := len(chat) - 1; i >= 0; i-- {
			out = append(out, chat[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
