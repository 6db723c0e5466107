package respond

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// systemPrompt fixes the assistant persona for every remote completion.
const systemPrompt = `You are a helpful pregnancy assistant for expectant mothers.
Provide accurate, factual information about pregnancy, but always remind users that
you are not a substitute for professional medical advice. Keep responses concise,
supportive, and informative. If a user asks something outside the scope of pregnancy,
gently steer the conversation back to pregnancy-related topics. Always provide a disclaimer
when discussing medical topics.`

const titlePrompt = "Generate a short, concise title (3-5 words) for this conversation based on the first message. Do not use quotes."

// FallbackReply is returned whenever the remote provider cannot be reached
// or produces nothing usable.
const FallbackReply = "I apologize, but I'm having trouble connecting to my knowledge base right now. Please try again in a moment."

// EmptyCompletionReply covers a successful call that returned no text.
const EmptyCompletionReply = "I'm sorry, I couldn't generate a response. Please try again."

// FallbackTitle is used when the remote title call fails.
const FallbackTitle = "New Conversation"

const (
	temperature    = 0.7
	replyMaxTokens = 500
	titleMaxTokens = 20
	callTimeout    = 30 * time.Second
)

var errNotConfigured = errors.New("provider credential not configured")

// Remote delegates reply and title generation to an OpenAI-compatible
// chat-completion endpoint. Every failure path, from a missing credential to
// a transport error, degrades to a fixed fallback string: the contract is
// that these methods never fail, only the logs know.
type Remote struct {
	llm    llms.Model
	logger *zap.Logger
}

// NewRemote builds the remote strategy. An empty token or a client
// construction error leaves the provider unset, which makes every call take
// the fallback path instead of failing startup.
func NewRemote(baseURL, token, model string, logger *zap.Logger) *Remote {
	r := &Remote{logger: logger}

	if token == "" {
		logger.Warn("remote provider credential missing, replies will use fallback text")
		return r
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		logger.Error("failed to initialize remote provider", zap.Error(err))
		return r
	}
	r.llm = llm
	return r
}

func (r *Remote) GenerateReply(ctx context.Context, history []Message) string {
	content := make([]llms.MessageContent, 0, len(history)+1)
	content = append(content, llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt))
	for _, msg := range history {
		role := schema.ChatMessageTypeHuman
		if msg.Role == "assistant" {
			role = schema.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}

	text, err := r.complete(ctx, content, replyMaxTokens)
	if err != nil {
		r.logger.Error("remote reply generation failed", zap.Error(err))
		return FallbackReply
	}
	if text == "" {
		return EmptyCompletionReply
	}
	return text
}

func (r *Remote) GenerateTitle(ctx context.Context, firstMessage string) string {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, titlePrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, firstMessage),
	}

	text, err := r.complete(ctx, content, titleMaxTokens)
	if err != nil {
		r.logger.Error("remote title generation failed", zap.Error(err))
		return FallbackTitle
	}
	if text == "" {
		return FallbackTitle
	}
	return text
}

// complete performs the single best-effort provider call. No retries: chat
// turns are latency-sensitive and the caller already has a fallback.
func (r *Remote) complete(ctx context.Context, content []llms.MessageContent, maxTokens int) (string, error) {
	if r.llm == nil {
		return "", errNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := r.llm.GenerateContent(ctx, content,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("provider returned no choices")
	}
	return stripQuotes(strings.TrimSpace(resp.Choices[0].Content)), nil
}

// stripQuotes removes one pair of wrapping double quotes, which some models
// add around titles despite being told not to.
func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
