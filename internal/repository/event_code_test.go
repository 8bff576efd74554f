package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := NewEventCode()
		require.NoError(t, err)
		assert.Len(t, code, eventCodeLength)
		for _, ch := range code {
			assert.Contains(t, eventCodeAlphabet, string(ch))
		}
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
