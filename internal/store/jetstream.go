package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/carebridge-ai/hospital-chatbot/internal/model"
)

const (
	// streamName is the name of the conversations stream.
	streamName = "CONVERSATIONS"

	// subjectPrefix is the prefix for all conversation subjects.
	subjectPrefix = "conv.turns"

	fetchBatchSize = 100
)

// JetStreamStore persists conversation turns as JSON messages on a NATS
// JetStream stream, one subject per conversation. Ordering within a
// conversation follows stream sequence.
type JetStreamStore struct {
	client *NATSClient
}

// NewJetStreamStore creates a JetStream-backed store and ensures the
// underlying stream exists.
func NewJetStreamStore(ctx context.Context, client *NATSClient) (*JetStreamStore, error) {
	s := &JetStreamStore{client: client}
	if err := s.ensureStream(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JetStreamStore) ensureStream(ctx context.Context) error {
	js := s.client.js

	if _, err := js.Stream(ctx, streamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        streamName,
		Subjects:    []string{subjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Conversation turn history",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// conversationSubject maps an opaque conversation id onto a single valid
// subject token. Ids are caller-supplied, so they are hex-encoded rather
// than trusted to be subject-safe.
func conversationSubject(id string) string {
	return fmt.Sprintf("%s.%s", subjectPrefix, hex.EncodeToString([]byte(id)))
}

// Get replays the conversation's subject through an ephemeral consumer.
func (s *JetStreamStore) Get(ctx context.Context, id string) ([]model.Turn, bool, error) {
	consumer, err := s.client.js.CreateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		FilterSubject: conversationSubject(id),
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create consumer: %w", err)
	}

	var turns []model.Turn
	for {
		batch, err := consumer.Fetch(fetchBatchSize, jetstream.FetchMaxWait(2*time.Second))
		if err != nil {
			return nil, false, fmt.Errorf("failed to fetch turns: %w", err)
		}

		n := 0
		for msg := range batch.Messages() {
			var turn model.Turn
			if err := json.Unmarshal(msg.Data(), &turn); err != nil {
				continue
			}
			turns = append(turns, turn)
			n++
		}
		if batchErr := batch.Error(); batchErr != nil && !errors.Is(batchErr, context.DeadlineExceeded) {
			return nil, false, fmt.Errorf("batch error: %w", batchErr)
		}
		if n < fetchBatchSize {
			break
		}
	}

	if len(turns) == 0 {
		return nil, false, nil
	}
	return turns, true, nil
}

// Append publishes a turn to the conversation's subject.
func (s *JetStreamStore) Append(ctx context.Context, id string, turn model.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}

	if _, err := s.client.js.Publish(ctx, conversationSubject(id), data); err != nil {
		return fmt.Errorf("failed to publish turn: %w", err)
	}
	return nil
}

// Delete purges the conversation's subject from the stream.
func (s *JetStreamStore) Delete(ctx context.Context, id string) error {
	stream, err := s.client.js.Stream(ctx, streamName)
	if err != nil {
		return fmt.Errorf("failed to look up stream: %w", err)
	}

	if err := stream.Purge(ctx, jetstream.WithPurgeSubject(conversationSubject(id))); err != nil {
		return fmt.Errorf("failed to purge conversation: %w", err)
	}
	return nil
}
