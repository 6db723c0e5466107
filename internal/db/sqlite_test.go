package db

import (
	"errors"
	"testing"
	"time"

	"github.com/mabelcare/mabel/internal/models"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	database, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestConversationCRUD(t *testing.T) {
	database := newTestDB(t)

	conv, err := database.CreateConversation(1, "Nutrition Question")
	if err != nil {
		t.Fatalf("CreateConversation failed: %v", err)
	}
	if conv.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if conv.UpdatedAt.Before(conv.CreatedAt) {
		t.Errorf("updated_at %v precedes created_at %v", conv.UpdatedAt, conv.CreatedAt)
	}

	got, err := database.GetConversation(conv.ID)
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if got.Title != "Nutrition Question" || got.UserID != 1 {
		t.Errorf("unexpected conversation: %+v", got)
	}

	if _, err := database.GetConversation(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}

	renamed, err := database.UpdateConversationTitle(conv.ID, "Renamed")
	if err != nil {
		t.Fatalf("UpdateConversationTitle failed: %v", err)
	}
	if renamed.Title != "Renamed" {
		t.Errorf("title = %q, want Renamed", renamed.Title)
	}

	if _, err := database.UpdateConversationTitle(999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound updating unknown id, got %v", err)
	}
}

func TestGetUserConversationsOrdering(t *testing.T) {
	database := newTestDB(t)

	first, _ := database.CreateConversation(1, "First")
	time.Sleep(5 * time.Millisecond)
	second, _ := database.CreateConversation(1, "Second")
	database.CreateConversation(2, "Other user")
	time.Sleep(5 * time.Millisecond)

	// Touching the older conversation moves it to the front.
	if _, err := database.CreateMessage(first.ID, 1, models.RoleUser, "hello again"); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	convs, err := database.GetUserConversations(1)
	if err != nil {
		t.Fatalf("GetUserConversations failed: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected 2 conversations for user 1, got %d", len(convs))
	}
	if convs[0].ID != first.ID || convs[1].ID != second.ID {
		t.Errorf("expected most recently updated conversation first, got order %d, %d", convs[0].ID, convs[1].ID)
	}
}

func TestMessagesOrderedAndTouchConversation(t *testing.T) {
	database := newTestDB(t)

	conv, _ := database.CreateConversation(1, "Chat")

	userMsg, err := database.CreateMessage(conv.ID, 1, models.RoleUser, "What should I eat?")
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	assistantMsg, err := database.CreateMessage(conv.ID, 1, models.RoleAssistant, "Lots of vegetables.")
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	msgs, err := database.GetMessages(conv.ID)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID != userMsg.ID || msgs[1].ID != assistantMsg.ID {
		t.Errorf("messages out of insert order: %d, %d", msgs[0].ID, msgs[1].ID)
	}
	if msgs[0].Role != models.RoleUser || msgs[1].Role != models.RoleAssistant {
		t.Errorf("roles = %q, %q; want user then assistant", msgs[0].Role, msgs[1].Role)
	}

	touched, _ := database.GetConversation(conv.ID)
	if touched.UpdatedAt.Before(assistantMsg.CreatedAt) {
		t.Errorf("conversation updated_at %v older than last message %v", touched.UpdatedAt, assistantMsg.CreatedAt)
	}
}

func TestDeleteConversationCascades(t *testing.T) {
	database := newTestDB(t)

	conv, _ := database.CreateConversation(1, "Doomed")
	for i := 0; i < 3; i++ {
		if _, err := database.CreateMessage(conv.ID, 1, models.RoleUser, "msg"); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	deleted, err := database.DeleteConversation(conv.ID)
	if err != nil {
		t.Fatalf("DeleteConversation failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report the conversation existed")
	}

	msgs, err := database.GetMessages(conv.ID)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected no messages after cascade delete, got %d", len(msgs))
	}

	deleted, err = database.DeleteConversation(conv.ID)
	if err != nil {
		t.Fatalf("second DeleteConversation failed: %v", err)
	}
	if deleted {
		t.Error("second delete should report not found")
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	database := newTestDB(t)

	if err := database.Seed(); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if err := database.Seed(); err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}

	topics, err := database.GetTopics()
	if err != nil {
		t.Fatalf("GetTopics failed: %v", err)
	}
	if len(topics) != 8 {
		t.Errorf("expected 8 seeded topics, got %d", len(topics))
	}

	resources, err := database.GetResources(0)
	if err != nil {
		t.Fatalf("GetResources failed: %v", err)
	}
	if len(resources) != 5 {
		t.Errorf("expected 5 seeded resources, got %d", len(resources))
	}
}

func TestResourcesFilterByTopic(t *testing.T) {
	database := newTestDB(t)
	if err := database.Seed(); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	topics, _ := database.GetTopics()
	var nutritionID int64
	for _, topic := range topics {
		if topic.Title == "Nutrition" {
			nutritionID = topic.ID
		}
	}
	if nutritionID == 0 {
		t.Fatal("nutrition topic not seeded")
	}

	resources, err := database.GetResources(nutritionID)
	if err != nil {
		t.Fatalf("GetResources failed: %v", err)
	}
	if len(resources) != 1 || resources[0].Title != "Prenatal Vitamin Guide" {
		t.Errorf("unexpected nutrition resources: %+v", resources)
	}

	// Filtering on a topic id that matches nothing is not an error.
	resources, err = database.GetResources(9999)
	if err != nil {
		t.Fatalf("GetResources with dangling topic failed: %v", err)
	}
	if len(resources) != 0 {
		t.Errorf("expected no resources, got %d", len(resources))
	}
}
