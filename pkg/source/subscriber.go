package source

import (
	"context"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/ledlink/pkg/mqtt"
)

// Subscriber receives classifier output published on an MQTT topic.
// Each sample returns the latest value, so the loop runs at its own
// rate regardless of the publisher.
type Subscriber struct {
	Labels map[string]int

	sub   *mqtt.Subscription
	value int
	valid bool
	lock  sync.Mutex
}

// Subscribe creates a Subscriber on topic.
func Subscribe(q *mqtt.Queue, topic string) *Subscriber {
	s := &Subscriber{Labels: ExpressionLabels}
	s.sub = q.Sub(topic, s.HandleMessage)
	return s
}

// HandleMessage decodes a payload as the latest value.
func (s *Subscriber) HandleMessage(topic string, payload []byte) {
	val, ok := Decode(string(payload), s.Labels)
	if !ok {
		glog.V(1).Infof("%s: ignored payload %q", topic, payload)
		return
	}
	s.lock.Lock()
	s.value, s.valid = val, true
	s.lock.Unlock()
}

// Sample implements Source.
func (s *Subscriber) Sample(ctx context.Context) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.valid {
		return 0, ErrNoSignal
	}
	return s.value, nil
}

// Close unsubscribes.
func (s *Subscriber) Close() error {
	if s.sub != nil {
		return s.sub.Close()
	}
	return nil
}
