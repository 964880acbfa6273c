package domain

import "sort"

// RankEntry is the minimal view of a profile needed to rank it.
type RankEntry struct {
	ProfileID string
	Points    int
	Rank      int
}

// AssignRanks orders entries by points descending then profile id ascending
// and gives each its 1-based position. Ties do not share a rank: the lower id
// wins. It returns the full ordering and the subset whose rank changed.
func AssignRanks(entries []RankEntry) (ranked []RankEntry, changed []RankEntry) {
	ranked = make([]RankEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].ProfileID < ranked[j].ProfileID
	})

	for i := range ranked {
		newRank := i + 1
		if ranked[i].Rank != newRank {
			ranked[i].Rank = newRank
			changed = append(changed, ranked[i])
		}
	}
	return ranked, changed
}
