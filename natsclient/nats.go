package natsclient

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects for gamification events published after a stats transaction
// commits. All publishes are best-effort: a failure is logged by the caller
// and never fails the request.
const (
	SubjectXPAwarded       = "gamification.xp.awarded"
	SubjectBadgeUnlocked   = "gamification.badge.unlocked"
	SubjectCourseCompleted = "gamification.course.completed"
)

type NatsClient struct {
	Conn *nats.Conn
}

func NewNatsClient(natsURL string) (*NatsClient, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}
	return &NatsClient{Conn: nc}, nil
}

func (n *NatsClient) Close() {
	if n.Conn != nil {
		n.Conn.Close()
	}
}

func (n *NatsClient) Publish(subject string, data []byte) error {
	return n.Conn.Publish(subject, data)
}

// PublishJSON marshals the event and publishes it on the subject.
func (n *NatsClient) PublishJSON(subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.Conn.Publish(subject, data)
}

func (n *NatsClient) Request(subject string, data []byte, timeout time.Duration) (*nats.Msg, error) {
	return n.Conn.Request(subject, data, timeout)
}

func (n *NatsClient) Subscribe(subject string, handler func(*nats.Msg)) (*nats.Subscription, error) {
	return n.Conn.Subscribe(subject, handler)
}
