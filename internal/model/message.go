package model

// Conversation roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one turn of the assistant transcript
type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound body of the assistant endpoints
type ChatRequest struct {
	Messages []ConversationMessage `json:"messages"`
}

// ChatResult is the outcome of one assistant turn
type ChatResult struct {
	Reply           string          `json:"message"`
	Criteria        *SearchCriteria `json:"searchCriteria"`
	PropertiesFound int             `json:"propertiesFound"`
	TotalMatches    int             `json:"totalMatches"`
	Properties      []Property      `json:"properties"`
	SearchID        string          `json:"searchId,omitempty"`
	Model           string          `json:"model"`
}

// ChatResponse is the outbound envelope of POST /api/chat
type ChatResponse struct {
	Success bool `json:"success"`
	*ChatResult
}
