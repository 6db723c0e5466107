package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mabelcare/mabel/internal/chat"
	"github.com/mabelcare/mabel/internal/db"
	"github.com/mabelcare/mabel/internal/models"
	"go.uber.org/zap"
)

// defaultUserID stands in for authenticated identity; the app is single-user.
const defaultUserID int64 = 1

// Store is the persistence surface the HTTP layer reads and writes.
type Store interface {
	GetTopics() ([]models.Topic, error)
	GetTopic(id int64) (*models.Topic, error)
	GetResources(topicID int64) ([]models.Resource, error)
	GetUserConversations(userID int64) ([]models.Conversation, error)
	GetConversation(id int64) (*models.Conversation, error)
	CreateConversation(userID int64, title string) (*models.Conversation, error)
	UpdateConversationTitle(id int64, title string) (*models.Conversation, error)
	DeleteConversation(id int64) (bool, error)
	GetMessages(convID int64) ([]models.Message, error)
}

// ChatService handles one user turn end to end.
type ChatService interface {
	HandleUserMessage(ctx context.Context, conversationID, userID int64, text string) (*chat.Turn, error)
}

type Handler struct {
	store  Store
	chat   ChatService
	logger *zap.Logger
}

func NewHandler(store Store, chatService ChatService, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		chat:   chatService,
		logger: logger,
	}
}

// Router builds the full API surface.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(h.logger))
	r.Use(cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/topics", h.GetTopics)
		r.Get("/topics/{id}", h.GetTopic)
		r.Get("/resources", h.GetResources)
		r.Get("/conversations", h.GetConversations)
		r.Post("/conversations", h.CreateConversation)
		r.Get("/conversations/{id}", h.GetConversation)
		r.Patch("/conversations/{id}", h.UpdateConversation)
		r.Delete("/conversations/{id}", h.DeleteConversation)
		r.Get("/conversations/{id}/messages", h.GetMessages)
		r.Post("/chat", h.HandleChat)
	})

	return r
}

type errorResponse struct {
	Message string `json:"message"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Message: message})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) GetTopics(w http.ResponseWriter, _ *http.Request) {
	topics, err := h.store.GetTopics()
	if err != nil {
		h.logger.Error("failed to get topics", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve topics")
		return
	}
	h.writeJSON(w, http.StatusOK, topics)
}

func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid topic ID")
		return
	}

	topic, err := h.store.GetTopic(id)
	if errors.Is(err, db.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "Topic not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get topic", zap.Error(err), zap.Int64("topic_id", id))
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve topic")
		return
	}
	h.writeJSON(w, http.StatusOK, topic)
}

func (h *Handler) GetResources(w http.ResponseWriter, r *http.Request) {
	var topicID int64
	if raw := r.URL.Query().Get("topicId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid topic ID")
			return
		}
		topicID = id
	}

	resources, err := h.store.GetResources(topicID)
	if err != nil {
		h.logger.Error("failed to get resources", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve resources")
		return
	}
	h.writeJSON(w, http.StatusOK, resources)
}

func (h *Handler) GetConversations(w http.ResponseWriter, _ *http.Request) {
	conversations, err := h.store.GetUserConversations(defaultUserID)
	if err != nil {
		h.logger.Error("failed to get conversations", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve conversations")
		return
	}
	h.writeJSON(w, http.StatusOK, conversations)
}

type createConversationRequest struct {
	Title string `json:"title"`
}

func (h *Handler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		req.Title = "New Conversation"
	}

	conversation, err := h.store.CreateConversation(defaultUserID, req.Title)
	if err != nil {
		h.logger.Error("failed to create conversation", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to create conversation")
		return
	}
	h.writeJSON(w, http.StatusCreated, conversation)
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	conversation, err := h.store.GetConversation(id)
	if errors.Is(err, db.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to get conversation", zap.Error(err), zap.Int64("conversation_id", id))
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve conversation")
		return
	}
	h.writeJSON(w, http.StatusOK, conversation)
}

type updateConversationRequest struct {
	Title string `json:"title"`
}

func (h *Handler) UpdateConversation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	var req updateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		h.writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	conversation, err := h.store.UpdateConversationTitle(id, req.Title)
	if errors.Is(err, db.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to update conversation", zap.Error(err), zap.Int64("conversation_id", id))
		h.writeError(w, http.StatusInternalServerError, "Failed to update conversation")
		return
	}
	h.writeJSON(w, http.StatusOK, conversation)
}

func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	deleted, err := h.store.DeleteConversation(id)
	if err != nil {
		h.logger.Error("failed to delete conversation", zap.Error(err), zap.Int64("conversation_id", id))
		h.writeError(w, http.StatusInternalServerError, "Failed to delete conversation")
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	messages, err := h.store.GetMessages(id)
	if err != nil {
		h.logger.Error("failed to get messages", zap.Error(err), zap.Int64("conversation_id", id))
		h.writeError(w, http.StatusInternalServerError, "Failed to retrieve messages")
		return
	}
	h.writeJSON(w, http.StatusOK, messages)
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID int64  `json:"conversationId,omitempty"`
}

type chatResponse struct {
	ConversationID   int64           `json:"conversationId"`
	UserMessage      *models.Message `json:"userMessage"`
	AssistantMessage *models.Message `json:"assistantMessage"`
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	turn, err := h.chat.HandleUserMessage(r.Context(), req.ConversationID, defaultUserID, req.Message)
	if errors.Is(err, chat.ErrEmptyMessage) {
		h.writeError(w, http.StatusBadRequest, "Message content is required")
		return
	}
	if err != nil {
		h.logger.Error("failed to process chat message", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Failed to process chat message")
		return
	}

	h.writeJSON(w, http.StatusCreated, chatResponse{
		ConversationID:   turn.ConversationID,
		UserMessage:      turn.UserMessage,
		AssistantMessage: turn.AssistantMessage,
	})
}
