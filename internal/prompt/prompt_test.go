package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build_Layout(t *testing.T) {
	b := NewBuilder(5)
	out := b.Build(
		"What should I see in Paris?",
		[]string{"Paris weather block", "Louvre passage"},
		[]Turn{
			{Role: "User", Text: "Planning a Europe trip"},
			{Role: "Assistant", Text: "Happy to help"},
		},
	)

	assert.Contains(t, out, "CONTEXT INFORMATION:")
	assert.Contains(t, out, "[Context 1]\nParis weather block")
	assert.Contains(t, out, "[Context 2]\nLouvre passage")
	assert.Contains(t, out, "Previous conversation:\nUser: Planning a Europe trip\nAssistant: Happy to help")
	assert.Contains(t, out, "USER QUESTION:\nWhat should I see in Paris?")
	assert.True(t, strings.HasSuffix(out, "YOUR RESPONSE:"))

	// Sections appear in fixed order.
	ctxIdx := strings.Index(out, "CONTEXT INFORMATION:")
	histIdx := strings.Index(out, "Previous conversation:")
	queryIdx := strings.Index(out, "USER QUESTION:")
	instrIdx := strings.Index(out, "INSTRUCTIONS:")
	require.True(t, ctxIdx < histIdx && histIdx < queryIdx && queryIdx < instrIdx)
}

func TestBuilder_Build_NoContext(t *testing.T) {
	b := NewBuilder(5)
	out := b.Build("Tell me about visas", nil, nil)

	assert.Contains(t, out, "No specific context available.")
	assert.NotContains(t, out, "Previous conversation:")
}

func TestBuilder_Build_HistoryWindow(t *testing.T) {
	b := NewBuilder(2)
	out := b.Build("next question", nil, []Turn{
		{Role: "User", Text: "first"},
		{Role: "Assistant", Text: "second"},
		{Role: "User", Text: "third"},
	})

	assert.NotContains(t, out, "User: first")
	assert.Contains(t, out, "Assistant: second")
	assert.Contains(t, out, "User: third")
}

func TestBuilder_Build_Deterministic(t *testing.T) {
	b := NewBuilder(5)
	blocks := []string{"block one", "block two"}
	history := []Turn{{Role: "User", Text: "hi"}}

	first := b.Build("same question", blocks, history)
	second := b.Build("same question", blocks, history)
	assert.Equal(t, first, second)
}
