package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge/schema"
)

func TestNormalizeRecordKeyAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want schema.CatalogItem
	}{
		{
			name: "canonical keys",
			raw: map[string]any{
				"name":       "Carbonara",
				"category":   "pasta",
				"price":      18.99,
				"attributes": []string{"classic", "creamy"},
				"exclusions": []string{"gluten"},
			},
			want: schema.CatalogItem{Name: "Carbonara", Category: "pasta", Price: 18.99, Attributes: []string{"classic", "creamy"}, Exclusions: []string{"gluten"}},
		},
		{
			name: "aliased keys",
			raw: map[string]any{
				"dish":      "Tiramisu",
				"type":      "dessert",
				"cost":      7.5,
				"allergens": []string{"egg", "dairy"},
			},
			want: schema.CatalogItem{Name: "Tiramisu", Category: "dessert", Price: 7.5, Exclusions: []string{"egg", "dairy"}},
		},
		{
			name: "string price with currency",
			raw:  map[string]any{"title": "Latte", "price": "$4.50"},
			want: schema.CatalogItem{Name: "Latte", Price: 4.5},
		},
		{
			name: "int price and comma-joined tags",
			raw:  map[string]any{"item": "Burger", "amount": 12, "tags": "juicy, grilled"},
			want: schema.CatalogItem{Name: "Burger", Price: 12, Attributes: []string{"juicy", "grilled"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRecord(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRecordRejectsNameless(t *testing.T) {
	_, err := NormalizeRecord(map[string]any{"price": 9.99, "category": "pasta"})
	require.Error(t, err)

	_, err = NormalizeRecord(map[string]any{"name": "   "})
	require.Error(t, err)
}

func TestNormalizeRecordsSkipsUnusable(t *testing.T) {
	raws := []map[string]any{
		{"name": "Good Dish", "price": 10.0},
		{"price": 5.0},
		{"dish": "Also Good"},
	}
	items := NormalizeRecords(raws)
	require.Len(t, items, 2)
	assert.Equal(t, "Good Dish", items[0].Name)
	assert.Equal(t, "Also Good", items[1].Name)
}

func TestStaticProviderReturnsCopies(t *testing.T) {
	p := NewStaticProvider()
	p.SetCatalog("t1", []schema.CatalogItem{{Name: "Dish", Price: 10}})
	p.SetHours("t1", "daily 9-17")

	ctx := context.Background()
	snap, err := p.Snapshot(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, snap, 1)

	// Mutating the returned snapshot must not affect later reads.
	snap[0].Name = "Mutated"
	again, err := p.Snapshot(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Dish", again[0].Name)

	hours, err := p.Hours(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "daily 9-17", hours)

	// Unknown tenants read as empty, not as an error.
	empty, err := p.Snapshot(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
