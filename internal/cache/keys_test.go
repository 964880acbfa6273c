package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		service     string
		objectType  string
		identifier  string
		params      []string
		expectedKey string
	}{
		{"no params", "chat", "finalize", "01HZX", nil, "medquest:chat:finalize:01HZX"},
		{"empty params", "chat", "finalize", "01HZX", []string{}, "medquest:chat:finalize:01HZX"},
		{"one param", "ranking", "leaderboard", "top", []string{"10"}, "medquest:ranking:leaderboard:top:10"},
		{"several params", "chat", "list", "u1", []string{"finished", "p2"}, "medquest:chat:list:u1:finished_p2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedKey, GenerateCacheKey(tt.service, tt.objectType, tt.identifier, tt.params...))
		})
	}
}

func TestNamedKeys(t *testing.T) {
	assert.Equal(t, "medquest:ranking:leaderboard:generation", LeaderboardGenerationKey())
	assert.Equal(t, "medquest:ranking:leaderboard:top:7", LeaderboardKey("7"))
	assert.Equal(t, "medquest:chat:finalize:abc", FinalizeLeaseKey("abc"))
}
