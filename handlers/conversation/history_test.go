package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicekit/core"
)

func TestHistoryAppendAndTrimKeepsMostRecent(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 30; i++ {
		h.Append(core.Turn{Role: core.RoleUser, Content: fmt.Sprintf("msg-%d", i)})
		h.TrimTo(20)
	}

	turns := h.All()
	require.Len(t, turns, 20)
	assert.Equal(t, "msg-10", turns[0].Content, "oldest surviving turn")
	assert.Equal(t, "msg-29", turns[19].Content, "newest turn")
}

func TestHistoryTrimPreservesRelativeOrder(t *testing.T) {
	h := NewHistory()
	h.Append(core.Turn{Role: core.RoleUser, Content: "a"})
	h.Append(core.Turn{Role: core.RoleAssistant, Content: "b"})
	h.Append(core.Turn{Role: core.RoleUser, Content: "c"})
	h.TrimTo(2)

	turns := h.All()
	require.Len(t, turns, 2)
	assert.Equal(t, "b", turns[0].Content)
	assert.Equal(t, "c", turns[1].Content)
}

func TestHistoryTrimNoopWhenUnderCap(t *testing.T) {
	h := NewHistory()
	h.Append(core.Turn{Role: core.RoleUser, Content: "a"})
	h.TrimTo(20)
	assert.Equal(t, 1, h.Len())
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory()
	h.Append(core.Turn{Role: core.RoleUser, Content: "a"})
	h.Append(core.Turn{Role: core.RoleAssistant, Content: "b"})
	h.Clear()

	assert.Empty(t, h.All())
	assert.Equal(t, 0, h.Len())
}

func TestHistoryAllReturnsSnapshot(t *testing.T) {
	h := NewHistory()
	h.Append(core.Turn{Role: core.RoleUser, Content: "a"})

	snapshot := h.All()
	h.Append(core.Turn{Role: core.RoleUser, Content: "b"})
	assert.Len(t, snapshot, 1, "snapshot must not observe later appends")
}

func TestSessionTableIssueAndGet(t *testing.T) {
	table := NewSessionTable()

	issued := table.Issue()
	require.NotEmpty(t, issued.ID)
	assert.Same(t, issued, table.Get(issued.ID))
}

func TestSessionTableDefaultsAndLazyCreate(t *testing.T) {
	table := NewSessionTable()

	def := table.Get("")
	assert.Equal(t, DefaultSessionID, def.ID)
	assert.Same(t, def, table.Get(""), "empty token always resolves to the same session")

	other := table.Get("client-chosen")
	assert.NotSame(t, def, other)
	assert.Same(t, other, table.Get("client-chosen"))
	assert.Equal(t, 2, table.Len())
}
