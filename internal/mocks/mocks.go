package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"conversync/api"
	"conversync/models"
)

type ConversationAPIMock struct {
	mock.Mock
}

func (m *ConversationAPIMock) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	args := m.Called(ctx)
	var list []models.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]models.Conversation)
	}
	return list, args.Error(1)
}

func (m *ConversationAPIMock) ListMessages(ctx context.Context, conversationID int64) ([]models.Message, error) {
	args := m.Called(ctx, conversationID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *ConversationAPIMock) CreateMessage(ctx context.Context, conversationID int64, content string) (models.CreatedMessage, error) {
	args := m.Called(ctx, conversationID, content)
	var created models.CreatedMessage
	if val := args.Get(0); val != nil {
		created = val.(models.CreatedMessage)
	}
	return created, args.Error(1)
}

func (m *ConversationAPIMock) DeleteMessage(ctx context.Context, conversationID, messageID int64) error {
	args := m.Called(ctx, conversationID, messageID)
	return args.Error(0)
}

func (m *ConversationAPIMock) AddReaction(ctx context.Context, conversationID, messageID int64, emoji string) error {
	args := m.Called(ctx, conversationID, messageID, emoji)
	return args.Error(0)
}

func (m *ConversationAPIMock) RemoveReaction(ctx context.Context, conversationID, messageID int64, emoji string) error {
	args := m.Called(ctx, conversationID, messageID, emoji)
	return args.Error(0)
}

var _ api.ConversationAPI = (*ConversationAPIMock)(nil)
