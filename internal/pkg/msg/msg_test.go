package msg

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"gotest.tools/v3/assert"
)

func TestSubscribe(t *testing.T) {
	pidPub, err := uuid.NewUUID()
	assert.NilError(t, err)

	pidSub1, err := uuid.NewUUID()
	assert.NilError(t, err)

	pidSub2, err := uuid.NewUUID()
	assert.NilError(t, err)

	pubsub := NewPublisher(pidPub)
	ch1, err := pubsub.Subscribe(pidSub1, Status)
	assert.NilError(t, err)
	ch2, err := pubsub.Subscribe(pidSub2, Status)
	assert.NilError(t, err)

	rand.Seed(time.Now().UnixNano())
	randValue := rand.Float64()

	go func(ch <-chan Msg) {
		t.Log("#1 WAITING")
		incoming := <-ch
		assert.Equal(t, incoming.Payload(), randValue, "First subscriber did not recieve the correct published value")
		t.Log("#1 FINISH")
	}(ch1)

	go func(ch <-chan Msg) {
		t.Log("#2 WAITING")
		incoming := <-ch
		assert.Equal(t, incoming.Payload(), randValue, "Second subscriber did not recieve the correct published value")
		t.Log("#2 FINISH")
	}(ch2)

	time.Sleep(1 * time.Second)
	pubsub.Publish(Status, randValue)
	time.Sleep(1 * time.Second)
}

func TestTopicsAreIsolated(t *testing.T) {
	pidPub, err := uuid.NewUUID()
	assert.NilError(t, err)
	pubsub := NewPublisher(pidPub)

	pidSub, err := uuid.NewUUID()
	assert.NilError(t, err)
	ch, err := pubsub.Subscribe(pidSub, Result)
	assert.NilError(t, err)

	pubsub.Publish(Progress, "not for this subscriber")
	pubsub.Publish(Result, "done")

	incoming := <-ch
	assert.Equal(t, incoming.Payload(), "done")
	assert.Equal(t, incoming.Topic(), Result)
	assert.Equal(t, incoming.PID(), pidPub)
}

func TestUnsubscribe(t *testing.T) {
	pidPub, err := uuid.NewUUID()
	assert.NilError(t, err)
	pubsub := NewPublisher(pidPub)

	pidSub, err := uuid.NewUUID()
	assert.NilError(t, err)
	ch, err := pubsub.Subscribe(pidSub, Status)
	assert.NilError(t, err)

	pubsub.Unsubscribe(pidSub)
	_, ok := <-ch
	assert.Assert(t, !ok)
}

func TestPublishNeverBlocks(t *testing.T) {
	pidPub, err := uuid.NewUUID()
	assert.NilError(t, err)
	pubsub := NewPublisher(pidPub)

	pidSub, err := uuid.NewUUID()
	assert.NilError(t, err)
	ch, err := pubsub.Subscribe(pidSub, Status)
	assert.NilError(t, err)

	// overflow the subscriber buffer without draining it
	for i := 0; i < 2*cap(ch); i++ {
		pubsub.Publish(Status, i)
	}
	assert.Equal(t, len(ch), cap(ch))
}

func TestStop(t *testing.T) {
	pidPub, err := uuid.NewUUID()
	assert.NilError(t, err)
	pubsub := NewPublisher(pidPub)

	pidSub1, err := uuid.NewUUID()
	assert.NilError(t, err)
	pidSub2, err := uuid.NewUUID()
	assert.NilError(t, err)

	ch1, err := pubsub.Subscribe(pidSub1, Status)
	assert.NilError(t, err)
	ch2, err := pubsub.Subscribe(pidSub2, Result)
	assert.NilError(t, err)

	pubsub.Stop()
	_, ok := <-ch1
	assert.Assert(t, !ok)
	_, ok = <-ch2
	assert.Assert(t, !ok)
}
