package classify

import "strings"

// minIndicatorHits is the minimum score a candidate language needs before it
// displaces the English default. One stray accent is not evidence.
const minIndicatorHits = 2

// languageIndicators maps a language tag to its indicator tokens. Tokens are
// high-frequency function words plus a few domain words unlikely to appear
// in English queries.
var languageIndicators = map[string][]string{
	"es": {
		"hola", "gracias", "por", "para", "como", "cómo", "que", "qué",
		"tienen", "tiene", "quiero", "quisiera", "donde", "dónde", "cuanto",
		"cuánto", "usted", "ustedes", "menú", "comida", "cuál", "hay",
		"recomienda", "horario", "abierto",
	},
	"fr": {
		"bonjour", "merci", "vous", "avez", "je", "voudrais", "est-ce",
		"qu'est-ce", "quel", "quelle", "combien", "où", "s'il", "plaît",
		"carte", "plat", "recommandez", "ouvert", "heures", "avec", "sans",
	},
	"it": {
		"ciao", "grazie", "per", "cosa", "avete", "vorrei", "quanto",
		"dove", "quale", "aperto", "orario", "piatto", "consiglia", "menù",
		"buongiorno", "buonasera",
	},
}

// languageDiacritics counts as half-strength evidence: diacritics alone can
// come from pasted item names, so each rune scores once but the token
// threshold still applies.
var languageDiacritics = map[string]string{
	"es": "ñ¿¡áéíóúü",
	"fr": "çàâêëîïôœùûü",
	"it": "àèéìòù",
}

// detectLanguage scores indicator hits per candidate language over the
// lowercased query and returns the best tag, defaulting to "en" below the
// threshold. Ties resolve to "en" as well.
func detectLanguage(q string) string {
	if q == "" {
		return "en"
	}
	tokens := tokenize(q)

	best := "en"
	bestScore := 0
	tie := false
	for _, lang := range []string{"es", "fr", "it"} {
		score := 0
		for _, tok := range tokens {
			for _, ind := range languageIndicators[lang] {
				if tok == ind {
					score++
					break
				}
			}
		}
		for _, r := range q {
			if strings.ContainsRune(languageDiacritics[lang], r) {
				score++
			}
		}
		if score > bestScore {
			best = lang
			bestScore = score
			tie = false
		} else if score == bestScore && score > 0 {
			tie = true
		}
	}
	if bestScore < minIndicatorHits || tie {
		return "en"
	}
	return best
}
