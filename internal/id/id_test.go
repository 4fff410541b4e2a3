package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate("test")
		require.NoError(t, err)
		assert.False(t, ids[id], "id should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"user", "user"},
		{"question", "q"},
		{"message", "msg"},
		{"tag", "tag"},
		{"roster target", "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Generate(tt.prefix)
			require.NoError(t, err)

			require.True(t, strings.HasPrefix(id, tt.prefix+"-"))
			assert.Equal(t, len(tt.prefix)+1+length, len(id), "id: %s", id)

			suffix := strings.TrimPrefix(id, tt.prefix+"-")
			assert.Len(t, suffix, length)

			// Only the prefix separator may be a dash.
			assert.NotContains(t, suffix, "-")
			assert.NotContains(t, suffix, "_")
			for _, char := range suffix {
				assert.Contains(t, alphabet, string(char))
			}
		})
	}
}

func TestMustGenerate_Format(t *testing.T) {
	id := MustGenerate("test")

	assert.True(t, strings.HasPrefix(id, "test-"))
	assert.Equal(t, len("test")+1+length, len(id))
}
