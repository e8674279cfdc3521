package resources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	r := Default(now)

	require.Len(t, r.Books, 6)
	assert.Equal(t, "Atomic Habits", r.Books[0].Title)
	assert.Equal(t, DefaultNote, r.PersonalizedNote)
	assert.Equal(t, time.UTC, r.LastUpdated.Location())
	assert.True(t, r.LastUpdated.Equal(now))
	assert.False(t, r.Empty())

	// callers may edit their copy freely
	r.Books[0].Title = "changed"
	assert.Equal(t, "Atomic Habits", Default(now).Books[0].Title)
}

func TestEmpty(t *testing.T) {
	var r *Recommendations
	assert.True(t, r.Empty())
	assert.True(t, (&Recommendations{}).Empty())
}

func TestCategories(t *testing.T) {
	books := []Book{{Category: "A"}, {Category: "B"}, {Category: "A"}}
	assert.Equal(t, []string{"A", "B"}, Categories(books))
	assert.Nil(t, Categories(nil))
}

func TestFilter(t *testing.T) {
	books := Default(time.Now()).Books

	tests := []struct {
		name     string
		category string
		query    string
		want     []string
	}{
		{"everything", "", "", []string{"1", "2", "3", "4", "5", "6"}},
		{"by category", "Psychology", "", []string{"3"}},
		{"case-insensitive", "", "HABITS", []string{"1", "5", "6"}},
		{"by author", "", "newport", []string{"2"}},
		{"category and query", "Personal Growth", "habit", []string{"1"}},
		{"no match", "Leadership", "coding", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, b := range Filter(books, tt.category, tt.query) {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
