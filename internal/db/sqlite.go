package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mabelcare/mabel/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a row lookup matches nothing.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    conversation_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS topics (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    icon TEXT
);

CREATE TABLE IF NOT EXISTS resources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    link TEXT,
    topic_id INTEGER
);`

type Database struct {
	db *sql.DB
}

func New(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (db *Database) Close() error {
	return db.db.Close()
}

// Conversations

// Timestamps are written via strftime with millisecond precision;
// CURRENT_TIMESTAMP's one-second resolution cannot recency-sort
// conversations touched within the same second.

func (db *Database) CreateConversation(userID int64, title string) (*models.Conversation, error) {
	query := `
        INSERT INTO conversations (user_id, title, created_at, updated_at)
        VALUES (?, ?, strftime('%Y-%m-%d %H:%M:%f','now'), strftime('%Y-%m-%d %H:%M:%f','now'))
        RETURNING id, created_at, updated_at`

	conv := &models.Conversation{UserID: userID, Title: title}
	err := db.db.QueryRow(query, userID, title).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
	return conv, err
}

func (db *Database) GetConversation(id int64) (*models.Conversation, error) {
	query := `
        SELECT id, user_id, title, created_at, updated_at
        FROM conversations
        WHERE id = ?`

	var conv models.Conversation
	err := db.db.QueryRow(query, id).Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (db *Database) GetUserConversations(userID int64) ([]models.Conversation, error) {
	query := `
        SELECT id, user_id, title, created_at, updated_at
        FROM conversations
        WHERE user_id = ?
        ORDER BY updated_at DESC, id DESC`

	rows, err := db.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

func (db *Database) UpdateConversationTitle(id int64, title string) (*models.Conversation, error) {
	res, err := db.db.Exec(`
        UPDATE conversations
        SET title = ?, updated_at = strftime('%Y-%m-%d %H:%M:%f','now')
        WHERE id = ?`, title, id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return db.GetConversation(id)
}

// DeleteConversation removes a conversation and all of its messages. The
// returned bool reports whether the conversation existed.
func (db *Database) DeleteConversation(id int64) (bool, error) {
	tx, err := db.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE conversation_id = ?", id); err != nil {
		return false, err
	}

	res, err := tx.Exec("DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Messages

// CreateMessage appends a message and refreshes the parent conversation's
// updated_at in the same transaction.
func (db *Database) CreateMessage(convID, userID int64, role, content string) (*models.Message, error) {
	tx, err := db.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	msg := &models.Message{ConvID: convID, UserID: userID, Role: role, Content: content}
	err = tx.QueryRow(`
        INSERT INTO messages (conversation_id, user_id, role, content, created_at)
        VALUES (?, ?, ?, ?, strftime('%Y-%m-%d %H:%M:%f','now'))
        RETURNING id, created_at`, convID, userID, role, content).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`
        UPDATE conversations SET updated_at = strftime('%Y-%m-%d %H:%M:%f','now') WHERE id = ?`, convID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessages returns a conversation's messages oldest first. Ties on
// created_at (same-second user/assistant pairs) break by insert order.
func (db *Database) GetMessages(convID int64) ([]models.Message, error) {
	query := `
        SELECT id, conversation_id, user_id, role, content, created_at
        FROM messages
        WHERE conversation_id = ?
        ORDER BY created_at ASC, id ASC`

	rows, err := db.db.Query(query, convID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.ConvID, &msg.UserID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// Topics

func (db *Database) CreateTopic(title, description, icon string) (*models.Topic, error) {
	topic := &models.Topic{Title: title, Description: description, Icon: icon}
	err := db.db.QueryRow(`
        INSERT INTO topics (title, description, icon)
        VALUES (?, ?, ?)
        RETURNING id`, title, description, icon).Scan(&topic.ID)
	return topic, err
}

func (db *Database) GetTopics() ([]models.Topic, error) {
	rows, err := db.db.Query(`SELECT id, title, description, COALESCE(icon, '') FROM topics ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topics := make([]models.Topic, 0)
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Icon); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (db *Database) GetTopic(id int64) (*models.Topic, error) {
	var t models.Topic
	err := db.db.QueryRow(`
        SELECT id, title, description, COALESCE(icon, '')
        FROM topics WHERE id = ?`, id).Scan(&t.ID, &t.Title, &t.Description, &t.Icon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Resources

func (db *Database) CreateResource(title, description, link string, topicID int64) (*models.Resource, error) {
	resource := &models.Resource{Title: title, Description: description, Link: link, TopicID: topicID}
	err := db.db.QueryRow(`
        INSERT INTO resources (title, description, link, topic_id)
        VALUES (?, ?, ?, ?)
        RETURNING id`, title, description, link, topicID).Scan(&resource.ID)
	return resource, err
}

// GetResources lists resources, optionally filtered by topic. A topicID that
// matches no topic simply yields an empty result.
func (db *Database) GetResources(topicID int64) ([]models.Resource, error) {
	query := `SELECT id, title, description, COALESCE(link, ''), COALESCE(topic_id, 0) FROM resources`
	args := []any{}
	if topicID != 0 {
		query += ` WHERE topic_id = ?`
		args = append(args, topicID)
	}
	query += ` ORDER BY id`

	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := make([]models.Resource, 0)
	for rows.Next() {
		var r models.Resource
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Link, &r.TopicID); err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

func (db *Database) GetResource(id int64) (*models.Resource, error) {
	var r models.Resource
	err := db.db.QueryRow(`
        SELECT id, title, description, COALESCE(link, ''), COALESCE(topic_id, 0)
        FROM resources WHERE id = ?`, id).Scan(&r.ID, &r.Title, &r.Description, &r.Link, &r.TopicID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Seed populates the default topics and resources on an empty database.
func (db *Database) Seed() error {
	var count int
	if err := db.db.QueryRow(`SELECT COUNT(*) FROM topics`).Scan(&count); err != nil {
		return fmt.Errorf("counting topics: %w", err)
	}
	if count > 0 {
		return nil
	}

	type seedTopic struct {
		title, description, icon string
	}
	seedTopics := []seedTopic{
		{"First Trimester", "Guidance for weeks 1-12 of pregnancy", "ri-calendar-line"},
		{"Second Trimester", "Information for weeks 13-26 of pregnancy", "ri-calendar-2-line"},
		{"Third Trimester", "Advice for weeks 27-40 of pregnancy", "ri-calendar-check-line"},
		{"Nutrition", "Dietary recommendations during pregnancy", "ri-heart-pulse-line"},
		{"Exercise", "Safe physical activities for expectant mothers", "ri-walk-line"},
		{"Common Symptoms", "Understanding normal pregnancy symptoms", "ri-psychotherapy-line"},
		{"Preparing for Birth", "Getting ready for labor and delivery", "ri-home-heart-line"},
		{"Mental Health", "Emotional wellbeing during pregnancy", "ri-mental-health-line"},
	}

	topicIDs := make([]int64, 0, len(seedTopics))
	for _, st := range seedTopics {
		topic, err := db.CreateTopic(st.title, st.description, st.icon)
		if err != nil {
			return fmt.Errorf("seeding topic %q: %w", st.title, err)
		}
		topicIDs = append(topicIDs, topic.ID)
	}

	type seedResource struct {
		title, description, link string
		topicIndex               int
	}
	seedResources := []seedResource{
		{"Prenatal Vitamin Guide", "Essential nutrients for a healthy pregnancy",
			"https://www.acog.org/womens-health/faqs/nutrition-during-pregnancy", 3},
		{"Safe Pregnancy Exercises", "Recommended activities by trimester",
			"https://www.acog.org/womens-health/faqs/exercise-during-pregnancy", 4},
		{"Managing Morning Sickness", "Tips for dealing with nausea in early pregnancy",
			"https://www.acog.org/womens-health/faqs/morning-sickness", 0},
		{"Birth Plan Template", "Creating your ideal labor and delivery experience",
			"https://www.acog.org/womens-health/faqs/planning-for-labor-and-delivery", 6},
		{"Recognizing Depression During Pregnancy", "Signs, symptoms and when to seek help",
			"https://www.acog.org/womens-health/faqs/depression-during-pregnancy", 7},
	}

	for _, sr := range seedResources {
		if _, err := db.CreateResource(sr.title, sr.description, sr.link, topicIDs[sr.topicIndex]); err != nil {
			return fmt.Errorf("seeding resource %q: %w", sr.title, err)
		}
	}

	return nil
}
