package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"

	"innsync/internal/domain/calendar"
)

func TestProducerConfigPassesValidation(t *testing.T) {
	cfg := producerConfig(nil)

	require.NoError(t, cfg.Validate())
	require.True(t, cfg.Producer.Idempotent)
	require.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	require.Equal(t, 1, cfg.Net.MaxOpenRequests)
}

func TestProducerConfigOverridesCallerInFlightLimit(t *testing.T) {
	custom := sarama.NewConfig()
	custom.Net.MaxOpenRequests = 5

	cfg := producerConfig(custom)

	require.Equal(t, 1, cfg.Net.MaxOpenRequests)
	require.NoError(t, cfg.Validate())
}

func TestPublishStopsOnCancelledContext(t *testing.T) {
	mock := mocks.NewSyncProducer(t, sarama.NewConfig())
	p := &Producer{sync: mock}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, "calendar.availability", "unit-1", []byte("{}"), nil)
	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, mock.Close())
}

func TestAvailabilityPublisherKeysMessagesByUnit(t *testing.T) {
	mock := mocks.NewSyncProducer(t, sarama.NewConfig())
	var sent *sarama.ProducerMessage
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		sent = msg
		return nil
	})
	pub := AvailabilityPublisher{Producer: &Producer{sync: mock}, Topic: "calendar.availability"}

	event := calendar.AvailabilityUpdated{
		UnitID:  "unit-9",
		From:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		Records: 3,
		At:      time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.PublishAvailabilityUpdated(context.Background(), event))
	require.NoError(t, mock.Close())

	require.NotNil(t, sent)
	require.Equal(t, "calendar.availability", sent.Topic)
	key, err := sent.Key.Encode()
	require.NoError(t, err)
	require.Equal(t, "unit-9", string(key))
	require.Len(t, sent.Headers, 1)
	require.Equal(t, "event", string(sent.Headers[0].Key))
	require.Equal(t, "availability.updated", string(sent.Headers[0].Value))
}
