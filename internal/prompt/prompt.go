// Package prompt renders the deterministic prompt sent to the language
// model. Building a prompt has no side effects; identical inputs always
// produce identical text.
package prompt

import (
	"fmt"
	"strings"
)

// SystemPolicy is the static instruction text sent as the model's system
// prompt on every request.
const SystemPolicy = "You are a helpful and knowledgeable travel planning assistant. " +
	"Your role is to provide accurate, detailed travel advice based on the information provided in the context. " +
	"Answer using ONLY the information provided in the context. " +
	"If real-time data (weather, prices, flights, hotels) is absent from the context, state that clearly instead of guessing."

// Turn is one prior exchange line in the conversation history.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Builder renders prompts with a bounded history window.
type Builder struct {
	historyTurns int
}

func NewBuilder(historyTurns int) *Builder {
	return &Builder{historyTurns: historyTurns}
}

// Build renders the user-side prompt: composed context blocks, the last-N
// history turns, the literal user question, and the response instructions,
// in that fixed order.
func (b *Builder) Build(query string, contextBlocks []string, history []Turn) string {
	var sb strings.Builder

	sb.WriteString("CONTEXT INFORMATION:\n")
	if len(contextBlocks) == 0 {
		sb.WriteString("No specific context available.\n")
	} else {
		for i, block := range contextBlocks {
			fmt.Fprintf(&sb, "[Context %d]\n%s\n", i+1, block)
			if i < len(contextBlocks)-1 {
				sb.WriteString("\n")
			}
		}
	}
	sb.WriteString("\n")

	if turns := lastN(history, b.historyTurns); len(turns) > 0 {
		sb.WriteString("Previous conversation:\n")
		for _, turn := range turns {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Text)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "USER QUESTION:\n%s\n\n", query)

	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString("- Answer the user's question using ONLY the information provided in the context above\n")
	sb.WriteString("- Be specific and include relevant details like prices, locations, and recommendations from the context\n")
	sb.WriteString("- If the context doesn't contain enough information to fully answer the question, say so\n")
	sb.WriteString("- Format your response in a clear, organized way\n")
	sb.WriteString("- Be helpful and friendly\n\n")
	sb.WriteString("YOUR RESPONSE:")

	return sb.String()
}

func lastN(history []Turn, n int) []Turn {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}
