package domain

// DefaultSearchLimit is the number of results returned when none is requested.
const DefaultSearchLimit = 5

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	Limit int

	// UploadedOnly keeps only results from uploaded documents.
	UploadedOnly bool
}

// SearchResult represents a single search hit.
type SearchResult struct {
	Content  string   `json:"content" yaml:"content"`
	Source   string   `json:"source" yaml:"source"`
	Metadata Metadata `json:"metadata" yaml:"-"`

	// Score is the cosine similarity to the query, in [-1, 1].
	Score float64 `json:"score" yaml:"score"`
}
