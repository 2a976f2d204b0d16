package mocks

import (
	"sync"

	"github.com/welldanyogia/webrana-posts-backend/internal/models"
	"github.com/welldanyogia/webrana-posts-backend/internal/websocket"
)

// EventRecord records a published post event
type EventRecord struct {
	Type   websocket.MessageType
	PostID uint
	Post   *models.Post
}

// MockEventPublisher records post events instead of broadcasting them
type MockEventPublisher struct {
	mu     sync.Mutex
	events []EventRecord
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// PostCreated records a post.created event
func (m *MockEventPublisher) PostCreated(post *models.Post) {
	m.record(EventRecord{Type: websocket.MessageTypePostCreated, PostID: post.ID, Post: post})
}

// PostUpdated records a post.updated event
func (m *MockEventPublisher) PostUpdated(post *models.Post) {
	m.record(EventRecord{Type: websocket.MessageTypePostUpdated, PostID: post.ID, Post: post})
}

// PostDeleted records a post.deleted event
func (m *MockEventPublisher) PostDeleted(id uint) {
	m.record(EventRecord{Type: websocket.MessageTypePostDeleted, PostID: id})
}

// Events returns a copy of all recorded events
func (m *MockEventPublisher) Events() []EventRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EventRecord(nil), m.events...)
}

// Clear removes all recorded events
func (m *MockEventPublisher) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

func (m *MockEventPublisher) record(e EventRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}
