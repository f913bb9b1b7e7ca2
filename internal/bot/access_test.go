package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessFilterAllowed(t *testing.T) {
	filter := NewAccessFilter([]string{"guild-1", "guild-2"}, []string{"chan-1"})

	assert.True(t, filter.Allowed("guild-1", "chan-1"))
	assert.True(t, filter.Allowed("guild-2", "chan-1"))

	assert.False(t, filter.Allowed("guild-3", "chan-1"))
	assert.False(t, filter.Allowed("guild-1", "chan-2"))
	assert.False(t, filter.Allowed("", ""))
}

func TestAccessFilterBothMustMatch(t *testing.T) {
	filter := NewAccessFilter([]string{"guild-1"}, []string{"chan-1"})

	// A permitted guild with a foreign channel is still denied, and vice versa.
	assert.False(t, filter.Allowed("guild-1", "other"))
	assert.False(t, filter.Allowed("other", "chan-1"))
}

func TestAccessFilterEmptyListFailsClosed(t *testing.T) {
	tests := []struct {
		name     string
		guilds   []string
		channels []string
	}{
		{"both empty", nil, nil},
		{"empty guilds", nil, []string{"chan-1"}},
		{"empty channels", []string{"guild-1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := NewAccessFilter(tt.guilds, tt.channels)
			assert.False(t, filter.Allowed("guild-1", "chan-1"))
		})
	}
}
