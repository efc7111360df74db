package model

// SearchRequest represents a search query request. Query is optional when
// filters are given.
type SearchRequest struct {
	Query   string         `json:"query"`
	Filters *SearchFilters `json:"filters,omitempty"`
	Options *SearchOptions `json:"options,omitempty"`
}

// SearchResponse represents a search result response
type SearchResponse struct {
	Results    []PropertySearchResult `json:"results"`
	Total      int                    `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"pageSize"`
	TotalPages int                    `json:"totalPages"`
	HasMore    bool                   `json:"hasMore"`
	Criteria   *SearchCriteria        `json:"searchCriteria,omitempty"`
	SearchID   string                 `json:"searchId,omitempty"`
	Took       int64                  `json:"tookMs"` // Response time in milliseconds
}

// SearchLog is one logged search, referenced later by feedback
type SearchLog struct {
	SearchID           string          `db:"search_id"`
	Query              string          `db:"query"`
	Criteria           *SearchCriteria `db:"-"`
	ResultCount        int             `db:"result_count"`
	ReturnedProperties []string        `db:"-"`
	ResponseTimeMs     int64           `db:"response_time_ms"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem represents a single embedding for one property
type EmbeddingItem struct {
	PropertyID string    `json:"propertyId" binding:"required"`
	Embedding  []float32 `json:"embedding" binding:"required"`
	Text       string    `json:"text,omitempty"` // The text used to generate embedding
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// FeedbackRequest represents user feedback/action on a logged search
type FeedbackRequest struct {
	SearchID   string `json:"searchId" binding:"required"`
	PropertyID string `json:"propertyId" binding:"required"`
	Action     string `json:"action" binding:"required,oneof=click contact view_details"`
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
