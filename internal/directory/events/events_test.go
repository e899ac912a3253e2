package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"phonebook/internal/directory/models"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.records = append(f.records, rs...)
	results := make(kgo.ProduceResults, len(rs))
	for i, r := range rs {
		results[i] = kgo.ProduceResult{Record: r, Err: f.err}
	}
	return results
}

func TestKafkaPublisher(t *testing.T) {
	event := models.RunEvent{
		RunID:       "run-1",
		Succeeded:   true,
		Active:      2,
		Inactive:    1,
		Attempts:    1,
		Cost:        3,
		StartedAt:   time.Unix(1_700_000_000, 0).UTC(),
		CompletedAt: time.Unix(1_700_000_060, 0).UTC(),
	}

	t.Run("publishes a keyed JSON record", func(t *testing.T) {
		producer := &fakeProducer{}
		pub, err := NewKafkaPublisher(producer, "phonebook.import.runs")
		require.NoError(t, err)

		require.NoError(t, pub.PublishRunCompleted(context.Background(), event))

		require.Len(t, producer.records, 1)
		rec := producer.records[0]
		assert.Equal(t, "phonebook.import.runs", rec.Topic)
		assert.Equal(t, []byte("run-1"), rec.Key)
		assert.Equal(t, []kgo.RecordHeader{{Key: "event-type", Value: []byte(EventRunCompleted)}}, rec.Headers)

		var decoded models.RunEvent
		require.NoError(t, json.Unmarshal(rec.Value, &decoded))
		assert.Equal(t, event, decoded)
	})

	t.Run("produce failure is returned", func(t *testing.T) {
		pub, err := NewKafkaPublisher(&fakeProducer{err: errors.New("broker down")}, "t")
		require.NoError(t, err)
		assert.ErrorContains(t, pub.PublishRunCompleted(context.Background(), event), "broker down")
	})

	t.Run("constructor validation", func(t *testing.T) {
		_, err := NewKafkaPublisher(nil, "t")
		assert.Error(t, err)
		_, err = NewKafkaPublisher(&fakeProducer{}, "")
		assert.Error(t, err)
	})
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishRunCompleted(context.Background(), models.RunEvent{}))
}
