package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "trustgate/pkg/domain"
	audit "trustgate/pkg/platform/audit"
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

func TestSinkAppendKeysByApplicant(t *testing.T) {
	producer := &fakeProducer{}
	sink := New(producer, "")
	applicant := id.ApplicantID(uuid.New())
	score := 82

	err := sink.Append(context.Background(), audit.Event{
		ApplicantID:   applicant,
		Subject:       "decision-1",
		Action:        string(audit.EventDecisionMade),
		Decision:      "HUMAN_REVIEW",
		Score:         &score,
		PolicyVersion: "v1",
		Timestamp:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, producer.records, 1)

	rec := producer.records[0]
	assert.Equal(t, DefaultTopic, rec.Topic)
	assert.Equal(t, applicant.String(), string(rec.Key))
	assert.Equal(t, "event_type", rec.Headers[0].Key)
	assert.Equal(t, "decision_made", string(rec.Headers[0].Value))

	decoded, err := audit.DecodeEvent(rec.Value)
	require.NoError(t, err)
	assert.Equal(t, audit.CategoryCompliance, decoded.Category)
	assert.Equal(t, applicant, decoded.ApplicantID)
	require.NotNil(t, decoded.Score)
	assert.Equal(t, 82, *decoded.Score)
}

func TestSinkPublishSurfacesProduceError(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker gone")}
	sink := New(producer, "audit-test")

	err := sink.Publish(context.Background(), []audit.OutboxEntry{{ID: uuid.New(), Key: "k", Payload: []byte(`{}`)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker gone")
	assert.Equal(t, "audit-test", producer.records[0].Topic)
}

func TestSinkPublishEmptyIsNoop(t *testing.T) {
	producer := &fakeProducer{}
	require.NoError(t, New(producer, "").Publish(context.Background(), nil))
	assert.Empty(t, producer.records)
}
