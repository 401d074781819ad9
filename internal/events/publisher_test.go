package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Parallel()

	w := &captureWriter{}
	p := &KafkaPublisher{w: w}

	err := p.Publish(context.Background(), TopicOrders, "order-1", map[string]any{"type": "order_created", "items": 2})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicOrders, msg.Topic)
	assert.Equal(t, "order-1", string(msg.Key))

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "order_created", body["type"])
	assert.EqualValues(t, 2, body["items"])
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	p := &KafkaPublisher{w: &captureWriter{err: boom}}

	err := p.Publish(context.Background(), TopicCatalog, "k", map[string]any{"type": "cake_created"})
	assert.ErrorIs(t, err, boom)
}

func TestKafkaPublisher_MarshalError(t *testing.T) {
	t.Parallel()

	p := &KafkaPublisher{w: &captureWriter{}}
	err := p.Publish(context.Background(), TopicCatalog, "k", map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}
