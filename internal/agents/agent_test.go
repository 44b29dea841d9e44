package agents

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-optimizer/internal/types"
)

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abc", clip("abcdef", 3))
}

func TestClip_RuneBoundaries(t *testing.T) {
	text := strings.Repeat("日本語の履歴書", 100)

	clipped := clip(text, 50)
	assert.True(t, utf8.ValidString(clipped), "truncation must not split a rune")
	assert.Equal(t, 50, utf8.RuneCountInString(clipped))
}

func TestHistoryTurns_TruncatesOnRuneBoundary(t *testing.T) {
	conv := &types.Conversation{}
	conv.AddMessage(types.Message{Role: types.RoleUser, Content: strings.Repeat("é", 40)})
	conv.AddMessage(types.Message{Role: types.RoleAssistant, Content: "ok"})

	history := historyTurns(conv, 3, 10)
	assert.True(t, utf8.ValidString(history))
	assert.Contains(t, history, "user: "+strings.Repeat("é", 10)+"\n")
	assert.Contains(t, history, "assistant: ok")
}

func TestHistoryTurns_NilConversation(t *testing.T) {
	assert.Equal(t, "", historyTurns(nil, 3, 100))
}
