package leaderboard

import "sort"

// Rank groups plantings by owner, drops inactive accounts, orders users by
// (treeCount desc, recentTree desc) and assigns dense 1-based ranks. Users
// tying on both keys are ordered by id so permuted input ranks identically.
func Rank(rows []PlantingRow) []Entry {
	type agg struct {
		entry  Entry
		cities map[string]struct{}
	}

	groups := map[string]*agg{}
	for _, row := range rows {
		if !row.UserActive {
			continue
		}
		g, ok := groups[row.UserID]
		if !ok {
			g = &agg{
				entry: Entry{
					UserID:         row.UserID,
					Name:           row.Name,
					ProfilePicture: row.ProfilePicture,
					TotalTrees:     row.TotalTrees,
				},
				cities: map[string]struct{}{},
			}
			groups[row.UserID] = g
		}
		g.entry.TreeCount++
		if row.CreatedAt.After(g.entry.RecentTree) {
			g.entry.RecentTree = row.CreatedAt
		}
		if row.City != "" {
			g.cities[row.City] = struct{}{}
		}
	}

	entries := make([]Entry, 0, len(groups))
	for _, g := range groups {
		for city := range g.cities {
			g.entry.Locations = append(g.entry.Locations, city)
		}
		sort.Strings(g.entry.Locations)
		entries = append(entries, g.entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TreeCount != entries[j].TreeCount {
			return entries[i].TreeCount > entries[j].TreeCount
		}
		if !entries[i].RecentTree.Equal(entries[j].RecentTree) {
			return entries[i].RecentTree.After(entries[j].RecentTree)
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Locate returns the user's rank in the full sorted order, independent of any
// page slicing, or nil when the user has no matching plantings.
func Locate(entries []Entry, userID string) *UserRank {
	for _, e := range entries {
		if e.UserID == userID {
			return &UserRank{Rank: e.Rank, TreeCount: e.TreeCount}
		}
	}
	return nil
}
