package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge-ai/hospital-chatbot/internal/model"
)

func TestDeliverer_Single(t *testing.T) {
	d := NewDeliverer(0)

	resp := d.Single("c1", model.Resolution{
		Tier:     model.TierFAQExact,
		Response: "9am-5pm daily.",
	})

	assert.Equal(t, "9am-5pm daily.", resp.Response)
	assert.Equal(t, "c1", resp.ConversationID)
	assert.True(t, resp.IsFAQ)
	assert.Nil(t, resp.Sources)
}

func TestDeliverer_StreamTokensReassemble(t *testing.T) {
	d := NewDeliverer(0)
	sink := &captureSink{}

	text := "The pharmacy is open from 8am to 10pm daily."
	err := d.Stream(context.Background(), sink, "c1", model.Resolution{
		Tier:     model.TierDelegated,
		Response: text,
	})
	require.NoError(t, err)

	var reassembled strings.Builder
	for _, event := range sink.events[:len(sink.events)-1] {
		token := event.(model.ContentEvent)
		require.Equal(t, model.EventToken, token.Type)
		reassembled.WriteString(token.Content)
	}
	assert.Equal(t, text, reassembled.String())

	end := sink.events[len(sink.events)-1].(model.EndEvent)
	assert.Equal(t, model.EventEnd, end.Type)
}

func TestDeliverer_StreamExactlyOneTerminalEvent(t *testing.T) {
	d := NewDeliverer(0)
	sink := &captureSink{}

	err := d.Stream(context.Background(), sink, "c1", model.Resolution{
		Tier:     model.TierDelegated,
		Response: "one two three",
	})
	require.NoError(t, err)

	terminals := 0
	for i, event := range sink.events {
		if end, ok := event.(model.EndEvent); ok {
			terminals++
			assert.Equal(t, len(sink.events)-1, i, "nothing follows the end event")
			assert.Equal(t, model.EventEnd, end.Type)
		}
	}
	assert.Equal(t, 1, terminals)
}

func TestDeliverer_StreamCanceledContextStopsWithoutEnd(t *testing.T) {
	d := NewDeliverer(0)
	sink := &captureSink{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.Stream(ctx, sink, "c1", model.Resolution{
		Tier:     model.TierDelegated,
		Response: "one two three",
	})
	require.Error(t, err)

	for _, event := range sink.events {
		_, isEnd := event.(model.EndEvent)
		assert.False(t, isEnd, "no end event after cancellation")
	}
}
