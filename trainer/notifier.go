package trainer

import (
	"context"

	"github.com/absmach/mltorrent/pkg/mqtt"
	"github.com/absmach/mltorrent/pkg/stream"
)

const (
	roundsSuffix  = "/rounds"
	controlSuffix = "/control"

	roundMessageType = "round"
)

func RoundsTopic(base string) string {
	return base + roundsSuffix
}

func ControlTopic(base string) string {
	return base + controlSuffix
}

type mqttNotifier struct {
	pubsub mqtt.PubSub
	topic  string
}

// NewMQTTNotifier publishes round updates as JSON to <base>/rounds.
func NewMQTTNotifier(pubsub mqtt.PubSub, base string) Notifier {
	return &mqttNotifier{pubsub: pubsub, topic: RoundsTopic(base)}
}

func (n *mqttNotifier) Notify(ctx context.Context, update RoundUpdate) error {
	return n.pubsub.Publish(ctx, n.topic, update)
}

type streamNotifier struct {
	hub *stream.Hub
}

// NewStreamNotifier broadcasts round updates to WebSocket clients.
func NewStreamNotifier(hub *stream.Hub) Notifier {
	return &streamNotifier{hub: hub}
}

func (n *streamNotifier) Notify(_ context.Context, update RoundUpdate) error {
	return n.hub.Broadcast(stream.Message{Type: roundMessageType, Data: update})
}
