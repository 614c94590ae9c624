package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jiyun-park/fanchannel-service/internal/channel"
	"github.com/jiyun-park/fanchannel-service/internal/chathub"
)

const keepAlivePingInterval = 10 * time.Second

// ChatStream upgrades requests to websocket connections that first
// receive the recent chat window and then every newly sent message.
type ChatStream struct {
	svc      *channel.Service
	hub      *chathub.Hub
	upgrader websocket.Upgrader
}

// NewChatStream creates the websocket endpoint for the given hub.
func NewChatStream(svc *channel.Service, hub *chathub.Hub) *ChatStream {
	return &ChatStream{
		svc: svc,
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *ChatStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("chat stream upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// subscribe before reading the window so nothing sent during the
	// replay can be missed
	subID, msgs := s.hub.Subscribe()
	defer s.hub.Unsubscribe(subID)

	recent, err := s.svc.RecentMessages(r.Context(), channel.ChatWindow)
	if err != nil {
		log.Printf("chat stream: recent messages: %v", err)
		return
	}
	// replay oldest-first so the client appends in display order
	for i := len(recent) - 1; i >= 0; i-- {
		if err := conn.WriteJSON(recent[i]); err != nil {
			return
		}
	}

	// drain reads; a read error means the peer went away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(keepAlivePingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
