// Package chat orchestrates a single conversation turn: persist the user
// message, ask the active response strategy for a reply, persist that too.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mabelcare/mabel/internal/models"
	"github.com/mabelcare/mabel/internal/respond"
	"go.uber.org/zap"
)

// ErrEmptyMessage rejects a turn before anything is written.
var ErrEmptyMessage = errors.New("message content is required")

// Store is the persistence the orchestrator needs for one turn.
type Store interface {
	CreateConversation(userID int64, title string) (*models.Conversation, error)
	CreateMessage(convID, userID int64, role, content string) (*models.Message, error)
	GetMessages(convID int64) ([]models.Message, error)
}

type Service struct {
	store    Store
	strategy respond.Strategy
	logger   *zap.Logger
}

func NewService(store Store, strategy respond.Strategy, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		strategy: strategy,
		logger:   logger,
	}
}

// Turn is the outcome of one handled user message.
type Turn struct {
	ConversationID   int64           `json:"conversation_id"`
	UserMessage      *models.Message `json:"user_message"`
	AssistantMessage *models.Message `json:"assistant_message"`
}

// HandleUserMessage runs one chat turn. When conversationID is zero a new
// conversation is created, titled by the strategy from the first message.
// Store failures propagate; the strategy itself never fails, so a saved user
// message without its assistant pair can only result from a store error
// between the two writes. That partial state is accepted rather than rolled
// back.
func (s *Service) HandleUserMessage(ctx context.Context, conversationID, userID int64, text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	if conversationID == 0 {
		title := s.strategy.GenerateTitle(ctx, text)
		conv, err := s.store.CreateConversation(userID, title)
		if err != nil {
			return nil, fmt.Errorf("creating conversation: %w", err)
		}
		conversationID = conv.ID
		s.logger.Info("created conversation",
			zap.Int64("conversation_id", conversationID),
			zap.String("title", title))
	}

	userMsg, err := s.store.CreateMessage(conversationID, userID, models.RoleUser, text)
	if err != nil {
		return nil, fmt.Errorf("saving user message: %w", err)
	}

	history, err := s.store.GetMessages(conversationID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	turns := make([]respond.Message, 0, len(history))
	for _, msg := range history {
		turns = append(turns, respond.Message{Role: msg.Role, Content: msg.Content})
	}

	reply := s.strategy.GenerateReply(ctx, turns)

	assistantMsg, err := s.store.CreateMessage(conversationID, userID, models.RoleAssistant, reply)
	if err != nil {
		return nil, fmt.Errorf("saving assistant message: %w", err)
	}

	return &Turn{
		ConversationID:   conversationID,
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}
