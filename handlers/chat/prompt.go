package chat

import (
	"fmt"
	"time"

	"voicekit/core"
)

// promptTimeLayout renders the wall clock the way the assistant would speak
// it, e.g. "Monday, January 05, 2026 at 03:04 PM".
const promptTimeLayout = "Monday, January 02, 2006 at 03:04 PM"

const systemTemplate = `You are a helpful voice assistant with web search capabilities.

Current date and time: %s

Keep responses concise and conversational - typically 1-3 sentences since they will be spoken aloud. Be friendly, warm, and natural. Don't use markdown or special formatting.

If web search results are provided, use them to give accurate, up-to-date information. Summarize the key points naturally. You CAN access the internet through web search - if someone asks you to look something up, you can do it.`

const searchBlockTemplate = "\n\n[Web Search Results]\n%s\n\nUse these results to answer the user's question."

// buildMessages projects the already-trimmed history into the message list
// for the completion provider: exactly one system turn first, then the
// history. The search block appears in the system turn iff summary is
// non-empty, so a turn whose search degraded is indistinguishable from one
// that never searched.
func buildMessages(now time.Time, history []core.Turn, summary string) []core.Turn {
	system := fmt.Sprintf(systemTemplate, now.Format(promptTimeLayout))
	if summary != "" {
		system += fmt.Sprintf(searchBlockTemplate, summary)
	}
	messages := make([]core.Turn, 0, len(history)+1)
	messages = append(messages, core.Turn{Role: core.RoleSystem, Content: system})
	messages = append(messages, history...)
	return messages
}
