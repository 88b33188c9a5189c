package assemble

import (
	"fmt"
	"strings"

	"concierge/schema"
)

// NoDataMarker is substituted when the catalog has nothing relevant, so the
// orchestrator can distinguish "nothing relevant" from "not yet assembled".
const NoDataMarker = "[no catalog data available]"

// minTokenLength filters out short stopword-like tokens when matching the
// raw query against the catalog.
const minTokenLength = 3

// Assembler renders a bounded textual context from an immutable catalog
// snapshot. Given the same snapshot, classification and text, the output is
// byte-identical: no randomness, no clock reads.
type Assembler struct {
	maxItems int
	maxBytes int
}

// New creates an assembler with the given caps. Non-positive caps fall back
// to 15 items and 4KB.
func New(maxItems, maxBytes int) *Assembler {
	if maxItems <= 0 {
		maxItems = 15
	}
	if maxBytes <= 0 {
		maxBytes = 4096
	}
	return &Assembler{maxItems: maxItems, maxBytes: maxBytes}
}

// Assemble builds the prompt context for a classified query. Greetings get
// an empty context; every other category renders a category-specific, capped
// slice of the snapshot.
func (a *Assembler) Assemble(snapshot []schema.CatalogItem, hours string, cls schema.Classification, rawText string) string {
	switch cls.Category {
	case schema.CategoryGreeting:
		return ""
	case schema.CategoryHours:
		if strings.TrimSpace(hours) == "" {
			return NoDataMarker
		}
		return "Operating hours: " + strings.TrimSpace(hours)
	}

	if len(snapshot) == 0 {
		return NoDataMarker
	}

	var out string
	switch cls.Category {
	case schema.CategorySpecificItem, schema.CategoryDietaryFilter:
		out = a.renderMatches(snapshot, rawText)
	case schema.CategoryCatalogOverview:
		out = a.renderOverview(snapshot)
	case schema.CategoryRecommendation:
		out = a.renderRepresentatives(snapshot)
	default:
		out = a.renderMatches(snapshot, rawText)
	}
	if out == "" {
		return NoDataMarker
	}
	return truncateLines(out, a.maxBytes)
}

// renderMatches filters the snapshot to items whose name, category or
// attributes contain a query token, one line per item.
func (a *Assembler) renderMatches(snapshot []schema.CatalogItem, rawText string) string {
	tokens := queryTokens(rawText)
	var b strings.Builder
	count := 0
	for _, item := range snapshot {
		if len(tokens) > 0 && !itemMatches(item, tokens) {
			continue
		}
		if count >= a.maxItems {
			break
		}
		b.WriteString(formatItem(item))
		b.WriteByte('\n')
		count++
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// renderOverview groups items by category and shows up to three examples per
// group with a remainder count, instead of dumping the whole catalog.
func (a *Assembler) renderOverview(snapshot []schema.CatalogItem) string {
	const examplesPerCategory = 3

	order := make([]string, 0)
	grouped := make(map[string][]schema.CatalogItem)
	for _, item := range snapshot {
		cat := item.Category
		if cat == "" {
			cat = "other"
		}
		if _, ok := grouped[cat]; !ok {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], item)
	}

	var b strings.Builder
	for _, cat := range order {
		items := grouped[cat]
		b.WriteString("## ")
		b.WriteString(cat)
		b.WriteByte('\n')
		limit := len(items)
		if limit > examplesPerCategory {
			limit = examplesPerCategory
		}
		for i := 0; i < limit; i++ {
			b.WriteString("- ")
			b.WriteString(items[i].Name)
			b.WriteString(fmt.Sprintf(" ($%.2f)", items[i].Price))
			b.WriteByte('\n')
		}
		if rest := len(items) - limit; rest > 0 {
			b.WriteString(fmt.Sprintf("- ...and %d more\n", rest))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// renderRepresentatives picks one item per category, diversity over volume.
func (a *Assembler) renderRepresentatives(snapshot []schema.CatalogItem) string {
	seen := make(map[string]bool)
	var b strings.Builder
	count := 0
	for _, item := range snapshot {
		cat := item.Category
		if cat == "" {
			cat = "other"
		}
		if seen[cat] {
			continue
		}
		seen[cat] = true
		if count >= a.maxItems {
			break
		}
		b.WriteString(item.Name)
		b.WriteString(fmt.Sprintf(" ($%.2f)", item.Price))
		if len(item.Attributes) > 0 {
			b.WriteString(" - ")
			b.WriteString(strings.Join(item.Attributes, ", "))
		}
		b.WriteByte('\n')
		count++
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// formatItem renders one catalog line: name (price) [attributes] {exclusions}.
func formatItem(item schema.CatalogItem) string {
	var b strings.Builder
	b.WriteString(item.Name)
	b.WriteString(fmt.Sprintf(" ($%.2f)", item.Price))
	if len(item.Attributes) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(item.Attributes, ", "))
		b.WriteString("]")
	}
	if len(item.Exclusions) > 0 {
		b.WriteString(" {")
		b.WriteString(strings.Join(item.Exclusions, ", "))
		b.WriteString("}")
	}
	return b.String()
}

// queryTokens extracts lowercase tokens longer than minTokenLength.
func queryTokens(rawText string) []string {
	fields := strings.Fields(strings.ToLower(rawText))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?¿¡;:\"'()")
		if len(f) > minTokenLength {
			out = append(out, f)
		}
	}
	return out
}

func itemMatches(item schema.CatalogItem, tokens []string) bool {
	name := strings.ToLower(item.Name)
	cat := strings.ToLower(item.Category)
	for _, tok := range tokens {
		if strings.Contains(name, tok) || strings.Contains(cat, tok) {
			return true
		}
		for _, attr := range item.Attributes {
			if strings.Contains(strings.ToLower(attr), tok) {
				return true
			}
		}
	}
	return false
}

// truncateLines caps s at maxBytes, cutting at the last full line so a
// truncated context never ends mid-item.
func truncateLines(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := s[:maxBytes]
	if idx := strings.LastIndexByte(cut, '\n'); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
