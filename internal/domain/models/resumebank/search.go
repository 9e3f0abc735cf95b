package resumebank

// Match is one résumé the matcher considered relevant to the query
type Match struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Reason   string `json:"reason" yaml:"reason"`
	FolderID string `json:"folder_id" yaml:"folder_id"`
}

// SearchResult is returned unmodified from the matcher.
// Exactly one of Matches or FailureReason is set.
type SearchResult struct {
	Matches       []Match `json:"matches,omitempty"`
	FailureReason string  `json:"failure_reason,omitempty"`
}
