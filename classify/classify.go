package classify

import (
	"strings"

	"concierge/schema"
)

// Classifier buckets a raw query into a category and detects its language.
// It is a total function over strings: every input, including empty and
// non-ASCII text, yields a well-formed result.
//
// Rules run in a fixed priority so safety-relevant intents are never
// shadowed by generic ones, and ambiguity resolves to the first match.
type Classifier struct {
	decoding map[schema.Category]schema.DecodingProfile
}

// New creates a classifier with the given category decoding table.
// A nil table is allowed; profiles then come back zero-valued and the
// caller's config lookup supplies them instead.
func New(decoding map[schema.Category]schema.DecodingProfile) *Classifier {
	return &Classifier{decoding: decoding}
}

// Classify returns the category, detected language and decoding profile for
// a raw query. It cannot fail; unrecognized text maps to CategoryOther.
func (c *Classifier) Classify(text string) schema.Classification {
	lowered := strings.ToLower(strings.TrimSpace(text))
	lang := detectLanguage(lowered)

	cat := categorize(lowered)
	return schema.Classification{
		Category: cat,
		Language: lang,
		Profile:  c.decoding[cat],
	}
}

func categorize(q string) schema.Category {
	switch {
	case matchesAny(q, greetingPhrases):
		return schema.CategoryGreeting
	case matchesAny(q, browsePhrases):
		return schema.CategoryCatalogOverview
	case matchesAny(q, foodVocabulary):
		return schema.CategorySpecificItem
	case matchesAny(q, dietaryVocabulary):
		return schema.CategoryDietaryFilter
	case matchesAny(q, recommendVocabulary):
		return schema.CategoryRecommendation
	case matchesAny(q, hoursVocabulary):
		return schema.CategoryHours
	default:
		return schema.CategoryOther
	}
}

// matchesAny reports whether any phrase occurs in q. Single words must match
// a whole token; multi-word phrases match as substrings.
func matchesAny(q string, phrases []string) bool {
	if q == "" {
		return false
	}
	var fields []string
	for _, p := range phrases {
		if strings.ContainsRune(p, ' ') {
			if strings.Contains(q, p) {
				return true
			}
			continue
		}
		if fields == nil {
			fields = tokenize(q)
		}
		for _, f := range fields {
			if f == p {
				return true
			}
		}
	}
	return false
}

// tokenize splits on whitespace and strips common punctuation so that
// "hello!" or "carbonara?" still match their lexicon entries.
func tokenize(q string) []string {
	fields := strings.Fields(q)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?¿¡;:\"'()")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Greeting lexicons cover English, Spanish, French and Italian.
var greetingPhrases = []string{
	"hello", "hi", "hey", "howdy", "good morning", "good afternoon", "good evening",
	"hola", "buenos dias", "buenos días", "buenas tardes", "buenas noches",
	"bonjour", "salut", "bonsoir",
	"ciao", "buongiorno", "buonasera",
}

var browsePhrases = []string{
	"menu", "show me the menu", "what do you have", "what do you sell",
	"what's on the menu", "whats on the menu", "what is on the menu",
	"carta", "que tienen", "qué tienen",
	"la carte", "qu'avez-vous",
}

// foodVocabulary is the named-entity / category keyword list. Item names are
// matched later against the catalog snapshot; this list only needs to signal
// "the user is asking about a concrete thing to eat or drink".
var foodVocabulary = []string{
	"pizza", "pasta", "spaghetti", "carbonara", "lasagna", "risotto", "gnocchi",
	"burger", "sandwich", "wrap", "taco", "burrito", "quesadilla",
	"salad", "soup", "appetizer", "starter", "entree", "dessert", "cake",
	"tiramisu", "gelato", "ice cream",
	"chicken", "beef", "steak", "pork", "fish", "salmon", "tuna", "shrimp",
	"sushi", "ramen", "noodles", "rice", "curry",
	"coffee", "espresso", "latte", "cappuccino", "tea", "juice", "smoothie",
	"wine", "beer", "cocktail",
	"ensalada", "sopa", "postre", "pollo", "carne", "pescado",
	"salade", "soupe", "poulet", "poisson", "boisson",
}

var dietaryVocabulary = []string{
	"vegan", "vegetarian", "gluten", "gluten-free", "dairy", "dairy-free",
	"lactose", "nut", "nuts", "peanut", "allergy", "allergies", "allergic",
	"allergen", "halal", "kosher", "keto", "low-carb",
	"vegetariano", "vegetariana", "alergia", "sin gluten",
	"végétarien", "végétalien", "allergie", "sans gluten",
}

var recommendVocabulary = []string{
	"recommend", "recommendation", "suggest", "suggestion", "best",
	"popular", "favorite", "favourite", "signature", "special",
	"what should i", "recomienda", "recomiendas", "sugerencia", "mejor",
	"recommande", "conseille", "meilleur",
}

var hoursVocabulary = []string{
	"hours", "open", "opened", "close", "closed", "closing", "opening",
	"schedule", "when do you", "what time",
	"horario", "abierto", "cerrado", "a que hora", "a qué hora",
	"horaires", "ouvert", "fermé",
}
