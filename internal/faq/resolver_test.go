package faq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge-ai/hospital-chatbot/internal/model"
)

var testCorpus = Corpus{
	"What are visiting hours?":      "9am-5pm daily.",
	"How do I book an appointment?": "Call reception between 8am and 8pm.",
}

func turn(role model.Role, content string) model.Turn {
	return model.Turn{Role: role, Content: content, Timestamp: time.Now()}
}

func TestResolveExact_Match(t *testing.T) {
	answer, ok := ResolveExact("What are visiting hours?", testCorpus)
	require.True(t, ok)
	assert.Equal(t, "9am-5pm daily.", answer)
}

func TestResolveExact_Miss(t *testing.T) {
	_, ok := ResolveExact("what are visiting hours?", testCorpus)
	assert.False(t, ok, "lookup is case sensitive, no normalization")

	_, ok = ResolveExact("Where is the cafeteria?", testCorpus)
	assert.False(t, ok)
}

func TestResolveExact_EmptyCorpus(t *testing.T) {
	_, ok := ResolveExact("What are visiting hours?", Corpus{})
	assert.False(t, ok)
}

func TestResolveFollowUp_KeywordAfterFAQAnswer(t *testing.T) {
	recent := []model.Turn{
		turn(model.RoleUser, "What are visiting hours?"),
		turn(model.RoleAssistant, "9am-5pm daily."),
	}

	answer, ok := ResolveFollowUp("how", recent, testCorpus)
	require.True(t, ok)
	assert.Equal(t, FollowUpReply, answer)
}

func TestResolveFollowUp_ArabicKeyword(t *testing.T) {
	recent := []model.Turn{
		turn(model.RoleUser, "What are visiting hours?"),
		turn(model.RoleAssistant, "9am-5pm daily."),
	}

	answer, ok := ResolveFollowUp("أريد تفاصيل أكثر", recent, testCorpus)
	require.True(t, ok)
	assert.Equal(t, FollowUpReply, answer)
}

func TestResolveFollowUp_ShortHistory(t *testing.T) {
	recent := []model.Turn{
		turn(model.RoleUser, "how"),
	}

	_, ok := ResolveFollowUp("how", recent, testCorpus)
	assert.False(t, ok, "fewer than 2 turns never matches, keywords or not")

	_, ok = ResolveFollowUp("how", nil, testCorpus)
	assert.False(t, ok)
}

func TestResolveFollowUp_NoAssistantTurn(t *testing.T) {
	recent := []model.Turn{
		turn(model.RoleUser, "hello"),
		turn(model.RoleUser, "anyone there?"),
	}

	_, ok := ResolveFollowUp("how", recent, testCorpus)
	assert.False(t, ok)
}

func TestResolveFollowUp_NoKeyword(t *testing.T) {
	recent := []model.Turn{
		turn(model.RoleUser, "What are visiting hours?"),
		turn(model.RoleAssistant, "9am-5pm daily."),
	}

	_, ok := ResolveFollowUp("thanks!", recent, testCorpus)
	assert.False(t, ok)
}

func TestResolveFollowUp_LastAnswerNotFromCorpus(t *testing.T) {
	recent := []model.Turn{
		turn(model.RoleUser, "Tell me about parking"),
		turn(model.RoleAssistant, "Parking is available in the north lot."),
	}

	_, ok := ResolveFollowUp("how", recent, testCorpus)
	assert.False(t, ok)
}

func TestResolveFollowUp_ScansBackwardForAssistant(t *testing.T) {
	recent := []model.Turn{
		turn(model.RoleUser, "What are visiting hours?"),
		turn(model.RoleAssistant, "9am-5pm daily."),
		turn(model.RoleUser, "ok"),
	}

	answer, ok := ResolveFollowUp("what about weekends", recent, testCorpus)
	require.True(t, ok)
	assert.Equal(t, FollowUpReply, answer)
}
