// Package respond decides how the assistant's next utterance is produced.
// Two strategies implement the same contract: a remote LLM-backed one and a
// local keyword matcher. Both are total: they return a usable string for any
// input and never return an error, so a chat turn always gets a reply.
package respond

import "context"

// Message is one turn of conversation context, oldest first when in a slice.
type Message struct {
	Role    string
	Content string
}

// Strategy produces the assistant's replies and conversation titles. The
// active strategy is chosen once at startup and injected into the chat
// service.
type Strategy interface {
	// GenerateReply returns the assistant's next message given the full
	// ordered history of the conversation. Never fails; internal errors
	// degrade to a fixed fallback string.
	GenerateReply(ctx context.Context, history []Message) string

	// GenerateTitle returns a short title derived from the first user
	// message of a new conversation. Never fails.
	GenerateTitle(ctx context.Context, firstMessage string) string
}
