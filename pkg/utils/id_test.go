package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateID(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		id := GenerateID()
		assert.Len(t, id, idLength)

		for _, r := range id {
			assert.Contains(t, characters, string(r))
		}

		seen[id] = struct{}{}
	}

	// Sem colisão em cem gerações
	assert.Len(t, seen, 100)
}
