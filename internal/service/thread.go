package service

import (
	"context"
	"fmt"
	"strings"

	"settlr/internal/model"
)

// ThreadRepository stores tenant/owner conversations about a listing
type ThreadRepository interface {
	GetPropertyByID(ctx context.Context, id string) (*model.Property, error)
	StartChat(ctx context.Context, propertyID, tenantID, ownerID string) (*model.Chat, error)
	GetChat(ctx context.Context, id string) (*model.Chat, error)
	AppendChatMessage(ctx context.Context, chatID, senderID, text string) (*model.ChatMessage, error)
}

// ThreadService manages owner chats. Participants are identified by their
// identity subject id, the same id listings store as owner.
type ThreadService struct {
	repo ThreadRepository
}

// NewThreadService creates a new thread service
func NewThreadService(repo ThreadRepository) *ThreadService {
	return &ThreadService{repo: repo}
}

// Start opens the caller's chat with the owner of a listing, or returns the existing one
func (s *ThreadService) Start(ctx context.Context, tenant *model.Identity, propertyID string) (*model.Chat, error) {
	property, err := s.repo.GetPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrNotFound
	}
	if property.OwnerID == tenant.SubjectID {
		return nil, fmt.Errorf("%w: owners cannot open a chat on their own listing", ErrForbidden)
	}
	return s.repo.StartChat(ctx, property.ID, tenant.SubjectID, property.OwnerID)
}

// Get returns a chat the caller takes part in
func (s *ThreadService) Get(ctx context.Context, caller *model.Identity, chatID string) (*model.Chat, error) {
	chat, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrNotFound
	}
	if chat.TenantID != caller.SubjectID && chat.OwnerID != caller.SubjectID {
		return nil, ErrForbidden
	}
	return chat, nil
}

// Send appends the caller's message to a chat they take part in
func (s *ThreadService) Send(ctx context.Context, caller *model.Identity, chatID, text string) (*model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text is empty", ErrMalformedInput)
	}
	if _, err := s.Get(ctx, caller, chatID); err != nil {
		return nil, err
	}
	return s.repo.AppendChatMessage(ctx, chatID, caller.SubjectID, text)
}
