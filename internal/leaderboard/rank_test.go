package leaderboard

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(userID string, createdAt time.Time, city string) PlantingRow {
	return PlantingRow{
		UserID:     userID,
		Name:       "User " + userID,
		UserActive: true,
		CreatedAt:  createdAt,
		City:       city,
	}
}

func TestRankOrderAndTiebreak(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// A and B tie on 5 trees; B's most recent contribution is newer, C has 3.
	var rows []PlantingRow
	for i := 0; i < 5; i++ {
		rows = append(rows, row("A", base.Add(time.Duration(i)*time.Hour), "Jakarta"))
	}
	for i := 0; i < 5; i++ {
		rows = append(rows, row("B", base.Add(time.Duration(i+24)*time.Hour), "Bandung"))
	}
	for i := 0; i < 3; i++ {
		rows = append(rows, row("C", base.Add(time.Duration(i)*time.Hour), "Surabaya"))
	}

	entries := Rank(rows)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"B", "A", "C"}, []string{entries[0].UserID, entries[1].UserID, entries[2].UserID})
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
	assert.Equal(t, 5, entries[0].TreeCount)
	assert.Equal(t, 3, entries[2].TreeCount)
}

func TestRankDenseConsecutive(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// ten users with identical counts still get distinct sequential ranks
	var rows []PlantingRow
	for _, id := range []string{"u0", "u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8", "u9"} {
		rows = append(rows, row(id, base, ""))
		rows = append(rows, row(id, base.Add(time.Minute), ""))
	}

	entries := Rank(rows)
	require.Len(t, entries, 10)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestRankDropsInactiveUsers(t *testing.T) {
	base := time.Now()
	rows := []PlantingRow{
		row("active", base, "Jakarta"),
		{UserID: "ghost", Name: "Ghost", UserActive: false, CreatedAt: base},
	}

	entries := Rank(rows)
	require.Len(t, entries, 1)
	assert.Equal(t, "active", entries[0].UserID)
}

func TestRankDistinctLocations(t *testing.T) {
	base := time.Now()
	rows := []PlantingRow{
		row("A", base, "Jakarta"),
		row("A", base, "Jakarta"),
		row("A", base, "Bandung"),
		row("A", base, ""),
	}

	entries := Rank(rows)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"Bandung", "Jakarta"}, entries[0].Locations)
}

func TestRankOrderIndependent(t *testing.T) {
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	var rows []PlantingRow
	for i := 0; i < 40; i++ {
		rows = append(rows, row("u"+string(rune('a'+i%7)), base.Add(time.Duration(i)*time.Minute), "City"))
	}

	want := Rank(rows)

	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]PlantingRow, len(rows))
		copy(shuffled, rows)
		r.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		assert.Equal(t, want, Rank(shuffled))
	}
}

func TestLocate(t *testing.T) {
	base := time.Now()
	rows := []PlantingRow{
		row("A", base, ""), row("A", base, ""),
		row("B", base.Add(time.Hour), ""),
	}
	entries := Rank(rows)

	found := Locate(entries, "B")
	require.NotNil(t, found)
	assert.Equal(t, 2, found.Rank)
	assert.Equal(t, 1, found.TreeCount)

	assert.Nil(t, Locate(entries, "missing"))
	assert.Nil(t, Locate(nil, "A"))
}
