package chat

import "time"

type ChatConfig struct {
	HistoryCap        int `json:"history_cap"`         // Maximum turns kept per conversation; oldest are dropped first.
	SearchResultCount int `json:"search_result_count"` // Maximum web results folded into the prompt and the response.

	// Now supplies the wall clock rendered into the system prompt. Left nil,
	// time.Now is used. Injectable for tests.
	Now func() time.Time `json:"-"`
}

// DefaultConfig returns a ChatConfig with the documented defaults.
func DefaultConfig() ChatConfig {
	return ChatConfig{
		HistoryCap:        20,
		SearchResultCount: 5,
	}
}
