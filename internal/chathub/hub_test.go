package chathub

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiyun-park/fanchannel-service/internal/domain"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub := New()
	_, a := hub.Subscribe()
	_, b := hub.Subscribe()
	require.Equal(t, 2, hub.Len())

	msg := &domain.ChatMessage{Nickname: "nari", Message: "hi", Time: "15:09"}
	hub.Publish(msg)

	assert.Equal(t, msg, <-a)
	assert.Equal(t, msg, <-b)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := New()
	id, ch := hub.Subscribe()

	hub.Unsubscribe(id)
	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, hub.Len())

	// unknown ids are ignored
	hub.Unsubscribe("no-such-id")
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := New()
	_, slow := hub.Subscribe()

	// overflow the buffer; Publish must never block
	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Publish(&domain.ChatMessage{Message: fmt.Sprintf("msg %d", i)})
	}

	// the slow subscriber got the first subscriberBuffer messages and
	// lost the rest
	for i := 0; i < subscriberBuffer; i++ {
		msg := <-slow
		assert.Equal(t, fmt.Sprintf("msg %d", i), msg.Message)
	}
	select {
	case msg := <-slow:
		t.Fatalf("unexpected extra message %q", msg.Message)
	default:
	}
}
