package msg

import (
	"sync"

	"github.com/google/uuid"
)

// Topic partitions the hub's event traffic.
type Topic int

const (
	// Status carries coarse solve lifecycle events.
	Status Topic = iota
	// Progress carries per-point updates from the Pareto sweep.
	Progress
	// Result carries finished results for downstream handlers.
	Result
)

// Publisher is an interface for objects that allow subscription to their events.
type Publisher interface {
	Subscribe(uuid.UUID, Topic) (<-chan Msg, error)
	Unsubscribe(uuid.UUID)
}

// Msg wraps a payload with its sender and topic.
type Msg struct {
	sender  uuid.UUID
	topic   Topic
	payload interface{}
}

// New is the Msg factory function.
func New(sender uuid.UUID, topic Topic, payload interface{}) Msg {
	return Msg{sender, topic, payload}
}

// PID returns the sender's PID.
func (m Msg) PID() uuid.UUID {
	return m.sender
}

// Topic returns the message topic.
func (m Msg) Topic() Topic {
	return m.topic
}

// Payload returns the message data.
func (m Msg) Payload() interface{} {
	return m.payload
}

// PubSub is a topic-keyed broadcast. Sends never block: a subscriber that
// falls behind misses messages rather than stalling a solve.
type PubSub struct {
	mux        *sync.Mutex
	pid        uuid.UUID
	subscriber map[Topic]map[uuid.UUID]chan<- Msg
}

// NewPublisher returns a PubSub owned by the pid parameter.
func NewPublisher(pid uuid.UUID) *PubSub {
	return &PubSub{
		mux:        &sync.Mutex{},
		pid:        pid,
		subscriber: make(map[Topic]map[uuid.UUID]chan<- Msg),
	}
}

// Subscribe returns a read only channel for the topic parameter.
func (p *PubSub) Subscribe(pid uuid.UUID, topic Topic) (<-chan Msg, error) {
	p.mux.Lock()
	defer p.mux.Unlock()
	ch := make(chan Msg, 50)
	if _, ok := p.subscriber[topic]; !ok {
		p.subscriber[topic] = make(map[uuid.UUID]chan<- Msg)
	}
	p.subscriber[topic][pid] = ch
	return ch, nil
}

// Unsubscribe closes and removes the channels associated with the pid parameter.
func (p *PubSub) Unsubscribe(pid uuid.UUID) {
	p.mux.Lock()
	defer p.mux.Unlock()
	for _, subs := range p.subscriber {
		if ch, ok := subs[pid]; ok {
			delete(subs, pid)
			close(ch)
		}
	}
}

// Publish broadcasts payload to all subscribers of topic.
func (p *PubSub) Publish(topic Topic, payload interface{}) {
	p.mux.Lock()
	defer p.mux.Unlock()
	for _, ch := range p.subscriber[topic] {
		select {
		case ch <- New(p.pid, topic, payload):
		default:
		}
	}
}

// Stop closes every subscriber channel.
func (p *PubSub) Stop() {
	p.mux.Lock()
	defer p.mux.Unlock()
	for topic, subs := range p.subscriber {
		for pid, ch := range subs {
			delete(subs, pid)
			close(ch)
		}
		delete(p.subscriber, topic)
	}
}
