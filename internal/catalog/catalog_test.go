package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapr-agent/recommender/internal/model"
)

func TestSearchEmptyFiltersReturnsFullCatalog(t *testing.T) {
	cat := NewSeeded()

	results := cat.Search("", "", nil)

	require.Len(t, results, 6)
	// Insertion order is stable.
	assert.Equal(t, "1", results[0].ID)
	assert.Equal(t, "6", results[5].ID)
}

func TestSearch(t *testing.T) {
	cat := NewSeeded()

	tests := []struct {
		name     string
		query    string
		category string
		tags     []string
		wantIDs  []string
	}{
		{
			name:    "query matches name case-insensitively",
			query:   "gaming laptop",
			wantIDs: []string{"1"},
		},
		{
			name:    "query matches description",
			query:   "brewing",
			wantIDs: []string{"4"},
		},
		{
			name:     "category match is case-insensitive",
			category: "electronics",
			wantIDs:  []string{"1", "2", "5", "6"},
		},
		{
			name:    "any requested tag matches",
			tags:    []string{"fitness", "coffee"},
			wantIDs: []string{"3", "4"},
		},
		{
			name:     "filters combine",
			category: "Electronics",
			tags:     []string{"audio"},
			wantIDs:  []string{"2", "6"},
		},
		{
			name:    "no match returns empty, not error",
			query:   "submarine",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := cat.Search(tt.query, tt.category, tt.tags)
			ids := make([]string, 0, len(results))
			for _, p := range results {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestGet(t *testing.T) {
	cat := NewSeeded()

	p, ok := cat.Get("3")
	require.True(t, ok)
	assert.Equal(t, "Smart Fitness Watch", p.Name)

	_, ok = cat.Get("does-not-exist")
	assert.False(t, ok)
}

func TestAdd(t *testing.T) {
	cat := NewSeeded()

	err := cat.Add(model.Product{ID: "7", Name: "Mechanical Keyboard", Category: "Electronics", Price: 129.99, Rating: 4.1, Stock: 10})
	require.NoError(t, err)

	p, ok := cat.Get("7")
	require.True(t, ok)
	assert.Equal(t, "Mechanical Keyboard", p.Name)

	// New products append after the seed set.
	all := cat.All()
	assert.Equal(t, "7", all[len(all)-1].ID)
}

func TestAddRejectsDuplicatesAndInvalidProducts(t *testing.T) {
	cat := NewSeeded()

	err := cat.Add(model.Product{ID: "1", Name: "Impostor", Price: 10})
	assert.ErrorContains(t, err, "already exists")

	err = cat.Add(model.Product{ID: "8", Name: "Free Money", Price: -1})
	assert.ErrorIs(t, err, model.ErrInvalidPrice)

	err = cat.Add(model.Product{ID: "9", Name: "Over-rated", Price: 1, Rating: 5.5})
	assert.ErrorIs(t, err, model.ErrInvalidRating)

	err = cat.Add(model.Product{Name: "No ID", Price: 1})
	assert.ErrorIs(t, err, model.ErrEmptyID)
}
