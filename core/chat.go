package core

// Role tags who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one role-tagged message unit in a conversation. Immutable once created.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SearchResult is a single web search hit, surfaced to the UI as a citation.
type SearchResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// SearchOutcome is the explicit result of one search call. A failed or
// unconfigured search produces a degraded outcome with empty results rather
// than an error: search is an enhancement, not a dependency, and a broken
// search must never abort the conversation turn.
type SearchOutcome struct {
	Summary  string         // Newline-joined "- {title}: {description}" lines for prompt injection.
	Results  []SearchResult // Structured results in provider order, for UI display.
	Degraded bool           // True when the provider could not be reached or answered non-200.
	Reason   string         // Why the outcome degraded; empty on success.
}

// Empty reports whether the outcome carries nothing worth injecting.
func (o SearchOutcome) Empty() bool {
	return o.Summary == "" && len(o.Results) == 0
}
