package websocket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newRegisteredMerchant(hub *Hub, businessID primitive.ObjectID) *Client {
	client := NewClient(hub, nil, primitive.NewObjectID(), "merchant", businessID)
	hub.registerClient(client)
	return client
}

func fillSendBuffer(client *Client) {
	for {
		select {
		case client.send <- []byte("x"):
		default:
			return
		}
	}
}

func TestBroadcastToBusiness_ConcurrentDropOfSlowClient(t *testing.T) {
	hub := NewHub(0, 0)
	businessID := primitive.NewObjectID()
	client := newRegisteredMerchant(hub, businessID)
	fillSendBuffer(client)

	// Every broadcast now hits the slow-client path. Concurrent calls must
	// agree on who removes the client from the maps.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.BroadcastToBusiness(businessID.Hex(), map[string]interface{}{"seq": j})
			}
		}()
	}
	wg.Wait()

	hub.mutex.RLock()
	defer hub.mutex.RUnlock()
	assert.NotContains(t, hub.clients, client)
	assert.NotContains(t, hub.rooms, "business_"+businessID.Hex())
}

func TestUnregisterAfterDropIsNoop(t *testing.T) {
	hub := NewHub(0, 0)
	businessID := primitive.NewObjectID()
	client := newRegisteredMerchant(hub, businessID)
	fillSendBuffer(client)

	hub.BroadcastToBusiness(businessID.Hex(), map[string]interface{}{"seq": 1})

	// The read pump's deferred unregister still fires after the hub already
	// dropped the client; it must not close the send channel a second time.
	assert.NotPanics(t, func() {
		hub.unregisterClient(client)
	})
}

func TestBroadcastToBusiness_DeliversToBusinessRoom(t *testing.T) {
	hub := NewHub(0, 0)
	businessID := primitive.NewObjectID()
	client := newRegisteredMerchant(hub, businessID)

	// Drain the welcome message first.
	<-client.send

	err := hub.BroadcastToBusiness(businessID.Hex(), map[string]interface{}{"type": "redemption"})
	assert.NoError(t, err)

	select {
	case data := <-client.send:
		assert.Contains(t, string(data), "redemption")
	default:
		t.Fatal("expected a queued event for the business room")
	}
}
