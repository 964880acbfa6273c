package cache

import "strings"

const (
	GlobalKeyPrefix = "medquest"
)

// GenerateCacheKey builds "medquest:<service>:<object>:<id>[:<p1_p2...>]".
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// LeaderboardGenerationKey holds a counter bumped on every invalidation.
func LeaderboardGenerationKey() string {
	return GenerateCacheKey("ranking", "leaderboard", "generation")
}

// LeaderboardKey is the hash holding serialized top-N lists, keyed by N, for
// one generation. A write tagged with an old generation is never read.
func LeaderboardKey(generation string) string {
	return GenerateCacheKey("ranking", "leaderboard", "top", generation)
}

// FinalizeLeaseKey guards a single chat's end-game evaluation.
func FinalizeLeaseKey(chatID string) string {
	return GenerateCacheKey("chat", "finalize", chatID)
}
