package assemble

import (
	"strings"
	"testing"

	"concierge/schema"
)

func snapshot() []schema.CatalogItem {
	return []schema.CatalogItem{
		{Name: "Spaghetti Carbonara", Category: "pasta", Price: 18.99, Attributes: []string{"classic", "creamy"}, Exclusions: []string{"contains gluten", "contains egg"}},
		{Name: "Penne Arrabbiata", Category: "pasta", Price: 14.50, Attributes: []string{"spicy", "vegan"}},
		{Name: "Margherita Pizza", Category: "pizza", Price: 12.00, Attributes: []string{"vegetarian"}},
		{Name: "Tiramisu", Category: "dessert", Price: 7.50},
	}
}

func classification(cat schema.Category) schema.Classification {
	return schema.Classification{Category: cat, Language: "en"}
}

func TestAssembleGreetingIsEmpty(t *testing.T) {
	a := New(15, 4096)
	if got := a.Assemble(snapshot(), "", classification(schema.CategoryGreeting), "hello"); got != "" {
		t.Fatalf("greeting context = %q, want empty", got)
	}
}

func TestAssembleEmptySnapshotYieldsMarker(t *testing.T) {
	a := New(15, 4096)
	for _, cat := range []schema.Category{
		schema.CategoryCatalogOverview,
		schema.CategorySpecificItem,
		schema.CategoryRecommendation,
		schema.CategoryDietaryFilter,
		schema.CategoryOther,
	} {
		if got := a.Assemble(nil, "", classification(cat), "anything"); got != NoDataMarker {
			t.Fatalf("empty snapshot for %s = %q, want %q", cat, got, NoDataMarker)
		}
	}
}

func TestAssembleSpecificItemLine(t *testing.T) {
	a := New(15, 4096)
	got := a.Assemble(snapshot(), "", classification(schema.CategorySpecificItem), "do you have carbonara?")
	want := "Spaghetti Carbonara ($18.99) [classic, creamy] {contains gluten, contains egg}"
	if got != want {
		t.Fatalf("context = %q, want %q", got, want)
	}
}

func TestAssembleDietaryMatchesAttributes(t *testing.T) {
	a := New(15, 4096)
	got := a.Assemble(snapshot(), "", classification(schema.CategoryDietaryFilter), "anything vegan?")
	if !strings.Contains(got, "Penne Arrabbiata") {
		t.Fatalf("vegan query should match by attribute, got %q", got)
	}
	if strings.Contains(got, "Tiramisu") {
		t.Fatalf("unmatched item leaked into context: %q", got)
	}
}

func TestAssembleNoMatchYieldsMarker(t *testing.T) {
	a := New(15, 4096)
	got := a.Assemble(snapshot(), "", classification(schema.CategorySpecificItem), "do you have sushi platters?")
	if got != NoDataMarker {
		t.Fatalf("no-match context = %q, want %q", got, NoDataMarker)
	}
}

func TestAssembleOverviewGroupsByCategory(t *testing.T) {
	a := New(15, 4096)
	got := a.Assemble(snapshot(), "", classification(schema.CategoryCatalogOverview), "what do you have?")
	for _, want := range []string{"## pasta", "## pizza", "## dessert", "- Spaghetti Carbonara ($18.99)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("overview missing %q:\n%s", want, got)
		}
	}
}

func TestAssembleOverviewCapsExamples(t *testing.T) {
	items := make([]schema.CatalogItem, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, schema.CatalogItem{Name: "Pasta Dish", Category: "pasta", Price: 10})
	}
	a := New(15, 4096)
	got := a.Assemble(items, "", classification(schema.CategoryCatalogOverview), "menu")
	if !strings.Contains(got, "- ...and 7 more") {
		t.Fatalf("overview should collapse the long tail:\n%s", got)
	}
}

func TestAssembleRecommendationOnePerCategory(t *testing.T) {
	a := New(15, 4096)
	got := a.Assemble(snapshot(), "", classification(schema.CategoryRecommendation), "what do you recommend?")
	if strings.Count(got, "$") != 3 {
		t.Fatalf("want one representative per category, got:\n%s", got)
	}
	if !strings.Contains(got, "Spaghetti Carbonara ($18.99) - classic, creamy") {
		t.Fatalf("representative line malformed:\n%s", got)
	}
}

func TestAssembleHours(t *testing.T) {
	a := New(15, 4096)
	got := a.Assemble(nil, "Mon-Fri 9:00-22:00", classification(schema.CategoryHours), "when are you open?")
	if got != "Operating hours: Mon-Fri 9:00-22:00" {
		t.Fatalf("hours context = %q", got)
	}
	if got := a.Assemble(nil, "  ", classification(schema.CategoryHours), "open?"); got != NoDataMarker {
		t.Fatalf("missing hours = %q, want %q", got, NoDataMarker)
	}
}

func TestAssembleByteCapCutsAtLineBoundary(t *testing.T) {
	items := make([]schema.CatalogItem, 0, 50)
	for i := 0; i < 50; i++ {
		items = append(items, schema.CatalogItem{Name: "Very Long Dish Name Number Whatever", Category: "pasta", Price: 10, Attributes: []string{"one", "two", "three"}})
	}
	a := New(50, 200)
	got := a.Assemble(items, "", classification(schema.CategoryOther), "pasta dishes")
	if len(got) > 200 {
		t.Fatalf("context %d bytes exceeds cap", len(got))
	}
	if strings.HasSuffix(got, "\n") || got == "" {
		t.Fatalf("truncated context malformed: %q", got)
	}
	for _, line := range strings.Split(got, "\n") {
		if !strings.HasPrefix(line, "Very Long Dish Name") {
			t.Fatalf("partial line survived truncation: %q", line)
		}
	}
}

func TestAssembleDeterministic(t *testing.T) {
	a := New(15, 4096)
	snap := snapshot()
	first := a.Assemble(snap, "", classification(schema.CategoryCatalogOverview), "menu")
	for i := 0; i < 20; i++ {
		if got := a.Assemble(snap, "", classification(schema.CategoryCatalogOverview), "menu"); got != first {
			t.Fatalf("assembly not deterministic:\n%s\nvs\n%s", got, first)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("You are helpful.", "some context", "hi there")
	want := "You are helpful.\n\nContext:\nsome context\n\nUser: hi there"
	if got != want {
		t.Fatalf("prompt = %q, want %q", got, want)
	}
	if got := BuildPrompt("", "", "hi"); got != "User: hi" {
		t.Fatalf("minimal prompt = %q", got)
	}
}
