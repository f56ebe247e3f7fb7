package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SendToUser_FansOutToAllChannels(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	first := hub.Register(userID)
	second := hub.Register(userID)
	require.Equal(t, 2, hub.ConnectionCount(userID))

	delivered := hub.SendToUser(userID, []byte("hello"))
	assert.Equal(t, 2, delivered)

	assert.Equal(t, []byte("hello"), <-first.Outbox())
	assert.Equal(t, []byte("hello"), <-second.Outbox())
}

func TestHub_SendToUser_NoChannels(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.SendToUser(uuid.New(), []byte("nobody home")))
}

func TestHub_SendToUser_OtherUsersUnaffected(t *testing.T) {
	hub := NewHub()
	alice := uuid.New()
	bob := uuid.New()

	aliceClient := hub.Register(alice)
	bobClient := hub.Register(bob)

	hub.SendToUser(alice, []byte("for alice"))

	assert.Equal(t, []byte("for alice"), <-aliceClient.Outbox())
	select {
	case msg := <-bobClient.Outbox():
		t.Fatalf("bob received unexpected message: %s", msg)
	default:
	}
}

func TestHub_Unregister_RemovesChannel(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	client := hub.Register(userID)
	hub.Unregister(client)

	assert.Equal(t, 0, hub.ConnectionCount(userID))
	assert.Equal(t, 0, hub.SendToUser(userID, []byte("gone")))

	// Channel is closed after unregister.
	_, open := <-client.Outbox()
	assert.False(t, open)
}

func TestHub_Unregister_Idempotent(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	client := hub.Register(userID)
	hub.Unregister(client)
	hub.Unregister(client)

	assert.Equal(t, 0, hub.ConnectionCount(userID))
}

func TestHub_Unregister_LeavesSiblingChannels(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	first := hub.Register(userID)
	second := hub.Register(userID)
	hub.Unregister(first)

	require.Equal(t, 1, hub.ConnectionCount(userID))
	assert.Equal(t, 1, hub.SendToUser(userID, []byte("still here")))
	assert.Equal(t, []byte("still here"), <-second.Outbox())
}

func TestHub_SendToUser_SaturatedChannelDropsMessage(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	client := hub.Register(userID)

	for i := 0; i < sendBufferSize; i++ {
		require.Equal(t, 1, hub.SendToUser(userID, []byte("fill")))
	}

	// Buffer is full: the send must not block and must report zero
	// deliveries.
	assert.Equal(t, 0, hub.SendToUser(userID, []byte("overflow")))
	assert.Equal(t, []byte("fill"), <-client.Outbox())
}
