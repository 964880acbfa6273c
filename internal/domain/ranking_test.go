package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignRanks_PositionalTies(t *testing.T) {
	entries := []RankEntry{
		{ProfileID: "1", Points: 500},
		{ProfileID: "2", Points: 500},
		{ProfileID: "3", Points: 300},
	}

	ranked, changed := AssignRanks(entries)

	assert.Equal(t, []RankEntry{
		{ProfileID: "1", Points: 500, Rank: 1},
		{ProfileID: "2", Points: 500, Rank: 2},
		{ProfileID: "3", Points: 300, Rank: 3},
	}, ranked)
	assert.Len(t, changed, 3)
}

func TestAssignRanks_OnlyChangedReturned(t *testing.T) {
	entries := []RankEntry{
		{ProfileID: "a", Points: 100, Rank: 2},
		{ProfileID: "b", Points: 900, Rank: 1},
		{ProfileID: "c", Points: 4000, Rank: 3},
	}

	ranked, changed := AssignRanks(entries)

	assert.Equal(t, "c", ranked[0].ProfileID)
	assert.Equal(t, "b", ranked[1].ProfileID)
	assert.Equal(t, "a", ranked[2].ProfileID)
	assert.Equal(t, []RankEntry{
		{ProfileID: "c", Points: 4000, Rank: 1},
		{ProfileID: "b", Points: 900, Rank: 2},
		{ProfileID: "a", Points: 100, Rank: 3},
	}, changed)

	_, again := AssignRanks(ranked)
	assert.Empty(t, again)
}

func TestAssignRanks_DoesNotMutateInput(t *testing.T) {
	entries := []RankEntry{{ProfileID: "z", Points: 1}, {ProfileID: "y", Points: 2}}
	AssignRanks(entries)
	assert.Equal(t, "z", entries[0].ProfileID)
	assert.Equal(t, 0, entries[0].Rank)
}

func TestAssignRanks_Empty(t *testing.T) {
	ranked, changed := AssignRanks(nil)
	assert.Empty(t, ranked)
	assert.Empty(t, changed)
}
