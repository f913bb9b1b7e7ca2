package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/T-One/krang/internal/errors"
)

const testBotID = "111222333"

func TestParseRequiresMention(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain text", "status"},
		{"other mention", "<@999> status"},
		{"mention mid-message", "please <@111222333> status"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.content, testBotID)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrNotAddressed))
		})
	}
}

func TestParseMentionForms(t *testing.T) {
	for _, content := range []string{
		"<@111222333> status",
		"<@!111222333> status",
		"  <@111222333>   status  ",
	} {
		inv, err := Parse(content, testBotID)
		require.NoError(t, err, "content: %q", content)
		assert.Equal(t, VerbStatus, inv.Verb)
		assert.Empty(t, inv.Arg)
	}
}

func TestParseVerbs(t *testing.T) {
	tests := []struct {
		content string
		verb    Verb
		arg     string
	}{
		{"<@111222333> status", VerbStatus, ""},
		{"<@111222333> start minecraft", VerbStart, "minecraft"},
		{"<@111222333> stop minecraft", VerbStop, "minecraft"},
		{"<@111222333> restart minecraft", VerbRestart, "minecraft"},
		{"<@111222333> logs minecraft", VerbLogs, "minecraft"},
		{"<@111222333> help", VerbHelp, ""},
		// Verb matching is case-insensitive
		{"<@111222333> STATUS", VerbStatus, ""},
		{"<@111222333> Start minecraft", VerbStart, "minecraft"},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			inv, err := Parse(tt.content, testBotID)
			require.NoError(t, err)
			assert.Equal(t, tt.verb, inv.Verb)
			assert.Equal(t, tt.arg, inv.Arg)
		})
	}
}

func TestParseUnknownVerb(t *testing.T) {
	_, err := Parse("<@111222333> destroy minecraft", testBotID)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrUnknownVerb))
}

func TestParseMissingArgument(t *testing.T) {
	for _, content := range []string{
		"<@111222333> start",
		"<@111222333> stop",
		"<@111222333> restart",
		"<@111222333> logs",
	} {
		_, err := Parse(content, testBotID)
		require.Error(t, err, "content: %q", content)
		assert.True(t, errors.HasCode(err, errors.ErrMissingArgument))
	}
}

func TestParseMentionWithoutCommand(t *testing.T) {
	for _, content := range []string{
		"<@111222333>",
		"<@111222333>   ",
		"<@!111222333>",
	} {
		_, err := Parse(content, testBotID)
		require.Error(t, err, "content: %q", content)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidInput))
	}
}

func TestParseExtraTokensIgnored(t *testing.T) {
	inv, err := Parse("<@111222333> start myserver extra tokens here", testBotID)
	require.NoError(t, err)
	assert.Equal(t, VerbStart, inv.Verb)
	assert.Equal(t, "myserver", inv.Arg)

	// No-argument verbs also tolerate trailing tokens.
	inv, err = Parse("<@111222333> status please", testBotID)
	require.NoError(t, err)
	assert.Equal(t, VerbStatus, inv.Verb)
}
