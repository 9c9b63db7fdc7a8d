package chat

import "strings"

// searchTriggers are fixed substrings that suggest the user wants current
// information from the web. A cheap gate that avoids calling the paid search
// API on every turn; queries matching none of these simply skip search.
var searchTriggers = []string{
	"look up", "search", "google", "find out", "what is", "who is", "when did",
	"current", "latest", "recent", "news", "price", "weather",
	"look online", "check online", "can you find", "do you know about",
	"internet", "online", "browse", "website", "tell me about", "explain what",
	"how does", "where can", "define",
}

// NeedsSearch reports whether the message contains any search trigger,
// case-insensitively. Pure; an empty message never triggers.
func NeedsSearch(message string) bool {
	lower := strings.ToLower(message)
	for _, trigger := range searchTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}
