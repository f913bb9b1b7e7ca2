package bot

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusResult() *Result {
	return &Result{
		Kind: KindSuccess,
		Verb: VerbStatus,
		Rows: []StatusRow{
			{Name: "minecraft", State: "running", Address: "10.0.0.1", Port: "25565", Credential: "hunter2"},
			{Name: "valheim", State: "not found", Address: "10.0.0.1", Port: "2456", Credential: "N/A"},
		},
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	res := statusResult()
	assert.Equal(t, Format(res), Format(res))

	logRes := &Result{Kind: KindSuccess, Verb: VerbLogs, Container: "minecraft", Logs: "a\nb", HasLogs: true}
	assert.Equal(t, Format(logRes), Format(logRes))
}

func TestFormatStatusTable(t *testing.T) {
	text := Format(statusResult())

	assert.True(t, strings.HasPrefix(text, "```"))
	assert.True(t, strings.HasSuffix(text, "```"))

	lines := strings.Split(text, "\n")
	// fence, rule, header, rule, two rows, rule, fence
	require.Len(t, lines, 8)

	assert.Contains(t, lines[2], "Container")
	assert.Contains(t, lines[4], "minecraft")
	assert.Contains(t, lines[4], "running")
	assert.Contains(t, lines[5], "not found")

	// All table lines are equally wide (aligned columns).
	width := len(lines[1])
	for _, line := range lines[1:7] {
		assert.Len(t, line, width)
	}
}

func TestFormatNotFound(t *testing.T) {
	text := Format(&Result{
		Kind:       KindNotFound,
		Container:  "doesnotexist",
		ValidNames: []string{"minecraft", "valheim"},
	})
	assert.Contains(t, text, "doesnotexist")
	assert.Contains(t, text, "minecraft")
	assert.Contains(t, text, "valheim")
}

func TestFormatEmptyLogs(t *testing.T) {
	text := Format(&Result{Kind: KindSuccess, Verb: VerbLogs, Container: "minecraft", HasLogs: false})
	assert.Contains(t, text, "no log output")
	assert.NotContains(t, text, "```")
}

func TestFormatLogsTruncatesHead(t *testing.T) {
	long := strings.Repeat("x", 3000) + "TAIL"
	text := Format(&Result{Kind: KindSuccess, Verb: VerbLogs, Container: "minecraft", Logs: long, HasLogs: true})

	assert.LessOrEqual(t, len(text), maxReplyLen+len("```\n\n```"))
	assert.Contains(t, text, "TAIL")
}

func TestFormatLogsTruncationKeepsRunesIntact(t *testing.T) {
	// Multi-byte runes straddling the cut position must never be split into
	// a mangled leading byte. Varying the tail padding shifts the cut across
	// both halves of a two-byte rune.
	for pad := 0; pad < 4; pad++ {
		long := strings.Repeat("é", 1000) + strings.Repeat("x", pad)
		text := Format(&Result{Kind: KindSuccess, Verb: VerbLogs, Container: "minecraft", Logs: long, HasLogs: true})

		assert.True(t, utf8.ValidString(text), "pad %d", pad)
		assert.LessOrEqual(t, len(text), maxReplyLen+len("```\n\n```"))
	}
}

func TestFormatUnknownWithQuote(t *testing.T) {
	text := Format(&Result{Kind: KindUnknown, Message: "unknown command 'destroy'", Quote: "WIPE THAT GRIN OFF YOUR FACE!"})
	assert.Contains(t, text, "destroy")
	assert.Contains(t, text, "WIPE THAT GRIN")
}

func TestFormatRuntimeErrorIsOneLine(t *testing.T) {
	text := Format(&Result{Kind: KindRuntimeError, Message: "Error performing start on container 'minecraft': runtime error."})
	assert.False(t, strings.Contains(text, "\n"))
}
