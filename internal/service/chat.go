package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"settlr/internal/config"
	"settlr/internal/model"
)

// Context blocks spliced onto the latest user message
const (
	propertiesHeader = "===== REAL PROPERTIES FROM SETTLR ====="
	propertiesFooter = "===== END ====="

	NoPropertiesContext = "\n\n===== NO PROPERTIES FOUND =====\n" +
		"Suggest the user to:\n" +
		"1. Adjust budget\n" +
		"2. Try nearby areas\n" +
		"3. Modify other criteria"
)

// PropertySearcher is the part of the search service the assistant uses
type PropertySearcher interface {
	SearchProperties(ctx context.Context, filters *model.SearchFilters, opts model.SearchOptions) (*model.SearchResult, error)
	RecordSearch(entry *model.SearchLog)
}

// ChatService advances assistant conversations: extract, search, splice, complete
type ChatService struct {
	searcher     PropertySearcher
	completion   CompletionClient
	systemPrompt string
	pageSize     int
	timeout      time.Duration
}

// NewChatService creates a new assistant service
func NewChatService(
	searcher PropertySearcher,
	completion CompletionClient,
	cfg config.CompletionConfig,
	pageSize int,
) *ChatService {
	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = config.DefaultSystemPrompt
	}
	return &ChatService{
		searcher:     searcher,
		completion:   completion,
		systemPrompt: prompt,
		pageSize:     pageSize,
		timeout:      cfg.Timeout,
	}
}

// ValidateTranscript rejects transcripts the assistant cannot answer:
// empty, unknown roles, or not ending with a non-blank user message
func ValidateTranscript(messages []model.ConversationMessage) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: messages must be a non-empty list", ErrMalformedInput)
	}
	for i, m := range messages {
		switch m.Role {
		case model.RoleSystem, model.RoleUser, model.RoleAssistant:
		default:
			return fmt.Errorf("%w: message %d has invalid role %q", ErrMalformedInput, i, m.Role)
		}
	}
	last := messages[len(messages)-1]
	if last.Role != model.RoleUser {
		return fmt.Errorf("%w: last message must come from the user", ErrMalformedInput)
	}
	if strings.TrimSpace(last.Content) == "" {
		return fmt.Errorf("%w: last message is empty", ErrMalformedInput)
	}
	return nil
}

// BuildTranscript returns a new transcript with propertyContext appended to the
// last message and the system prompt in front when the first message is not
// already a system message. The input slice is left untouched.
func BuildTranscript(
	messages []model.ConversationMessage,
	propertyContext string,
	systemPrompt string,
) []model.ConversationMessage {
	out := make([]model.ConversationMessage, 0, len(messages)+1)

	if len(messages) == 0 || messages[0].Role != model.RoleSystem {
		out = append(out, model.ConversationMessage{Role: model.RoleSystem, Content: systemPrompt})
	}
	out = append(out, messages...)

	if propertyContext != "" && len(messages) > 0 {
		last := &out[len(out)-1]
		last.Content += propertyContext
	}
	return out
}

// PropertyContext renders the block spliced after the user's message
func PropertyContext(properties []model.Property) string {
	if len(properties) == 0 {
		return NoPropertiesContext
	}
	return fmt.Sprintf("\n\n%s\n%s\n%s\n\nPresent these %d properties to the user in a friendly way.",
		propertiesHeader, FormatProperties(properties, FormatMarkdown), propertiesFooter, len(properties))
}

// Advance runs one assistant turn and returns the completion verbatim with
// the search side-channel
func (s *ChatService) Advance(ctx context.Context, messages []model.ConversationMessage) (*model.ChatResult, error) {
	transcript, result, err := s.prepareTurn(ctx, messages)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	logrus.Info("🤖 Sending to AI...")
	reply, err := s.completion.Complete(ctx, transcript)
	if err != nil {
		logrus.WithError(err).Error("❌ Completion failed")
		return nil, fmt.Errorf("%w: %w", ErrCompletionUnavailable, err)
	}
	logrus.Info("✅ AI response received")

	result.Reply = reply
	return result, nil
}

// AdvanceStream runs one assistant turn, forwarding completion chunks to
// onChunk as they arrive. The returned result carries the accumulated reply.
func (s *ChatService) AdvanceStream(
	ctx context.Context,
	messages []model.ConversationMessage,
	onChunk func(thinking, content string) error,
) (*model.ChatResult, error) {
	transcript, result, err := s.prepareTurn(ctx, messages)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	logrus.Info("🤖 Streaming from AI...")
	reply, err := s.completion.CompleteStream(ctx, transcript, onChunk)
	if err != nil {
		logrus.WithError(err).Error("❌ Streaming completion failed")
		return nil, fmt.Errorf("%w: %w", ErrCompletionUnavailable, err)
	}

	result.Reply = reply
	return result, nil
}

// prepareTurn validates, searches when the utterance carries intent and
// builds the transcript handed to the completion service
func (s *ChatService) prepareTurn(
	ctx context.Context,
	messages []model.ConversationMessage,
) ([]model.ConversationMessage, *model.ChatResult, error) {
	if err := ValidateTranscript(messages); err != nil {
		return nil, nil, err
	}
	if !s.completion.IsEnabled() {
		return nil, nil, fmt.Errorf("%w: completion API is not configured", ErrCompletionUnavailable)
	}

	latest := messages[len(messages)-1].Content
	logrus.Debugf("[DEBUG] 💬 User message: %s", latest)

	criteria := ExtractSearchCriteria(latest)
	logrus.WithField("criteria", criteria).Debug("[DEBUG] 🔍 Extracted criteria")

	result := &model.ChatResult{
		Criteria:   criteria,
		Properties: []model.Property{},
		Model:      s.completion.Model(),
	}

	var propertyContext string
	if criteria.HasIntent() {
		propertyContext = s.searchContext(ctx, latest, criteria, result)
	}

	return BuildTranscript(messages, propertyContext, s.systemPrompt), result, nil
}

// searchContext searches for the criteria and fills the side-channel.
// A failed search is logged and yields no context.
func (s *ChatService) searchContext(
	ctx context.Context,
	query string,
	criteria *model.SearchCriteria,
	result *model.ChatResult,
) string {
	logrus.Info("🏠 Searching properties...")
	start := time.Now()

	found, err := s.searcher.SearchProperties(ctx, criteria.Filters(), model.SearchOptions{
		Limit:             s.pageSize,
		Sort:              model.SortNewest,
		IncludeUnverified: true,
	})
	if err != nil {
		logrus.WithError(err).Error("❌ Search error")
		return ""
	}

	result.Properties = found.Properties
	result.PropertiesFound = len(found.Properties)
	result.TotalMatches = found.Total
	result.SearchID = uuid.NewString()

	logrus.Infof("📊 Found %d properties (%d total)", result.PropertiesFound, result.TotalMatches)

	s.searcher.RecordSearch(&model.SearchLog{
		SearchID:           result.SearchID,
		Query:              query,
		Criteria:           criteria,
		ResultCount:        found.Total,
		ReturnedProperties: propertyIDs(found.Properties),
		ResponseTimeMs:     time.Since(start).Milliseconds(),
	})

	return PropertyContext(found.Properties)
}

func (s *ChatService) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
