package faq

import (
	"strings"

	"github.com/carebridge-ai/hospital-chatbot/internal/model"
)

// FollowUpReply is the canned clarification returned when a message looks
// like a follow-up to a recently served FAQ answer.
const FollowUpReply = "يمكنني مساعدتك بمزيد من التفاصيل. يرجى توضيح ما تريد معرفته بالتحديد."

// followUpKeywords is the fixed bilingual keyword set used by the
// follow-up heuristic.
var followUpKeywords = []string{
	"المزيد", "أكثر", "تفاصيل", "معلومات", "كيف", "متى", "أين",
	"لماذا", "ماذا", "هل", "more", "how", "when", "where", "what",
}

// ResolveExact returns the corpus answer iff the question exactly equals a
// corpus key. Lookup is a strict string match: the corpus is authored with
// exact question phrasing, so no case or whitespace normalization is
// applied.
func ResolveExact(question string, corpus Corpus) (string, bool) {
	answer, ok := corpus[question]
	return answer, ok
}

// ResolveFollowUp applies the follow-up heuristic: the current message must
// contain one of the configured keywords (lowercased containment) and the
// most recent assistant turn must contain a corpus answer as a substring.
// This is keyword matching, not semantic understanding; misses and false
// positives are expected.
func ResolveFollowUp(current string, recent []model.Turn, corpus Corpus) (string, bool) {
	if len(recent) < 2 {
		return "", false
	}

	var lastAssistant *model.Turn
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].Role == model.RoleAssistant {
			lastAssistant = &recent[i]
			break
		}
	}
	if lastAssistant == nil {
		return "", false
	}

	lowered := strings.ToLower(current)
	isFollowUp := false
	for _, keyword := range followUpKeywords {
		if strings.Contains(lowered, keyword) {
			isFollowUp = true
			break
		}
	}
	if !isFollowUp {
		return "", false
	}

	for _, answer := range corpus {
		if strings.Contains(lastAssistant.Content, answer) {
			return FollowUpReply, true
		}
	}
	return "", false
}
