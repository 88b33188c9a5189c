package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"concierge/schema"
)

// Upstream catalog feeds are dict-shaped records with inconsistent keys
// ("name" vs "dish" vs "title", "price" vs "cost"). Normalization happens
// here, once, so the core never branches on which key exists.

var (
	nameKeys      = []string{"name", "dish", "title", "item"}
	categoryKeys  = []string{"category", "type", "section"}
	priceKeys     = []string{"price", "cost", "amount"}
	attributeKeys = []string{"attributes", "tags", "ingredients", "composition"}
	exclusionKeys = []string{"exclusions", "allergens", "warnings"}
)

// NormalizeRecord folds a raw record into the canonical CatalogItem. A
// record without any recognizable name key is rejected.
func NormalizeRecord(raw map[string]any) (schema.CatalogItem, error) {
	item := schema.CatalogItem{}

	name := firstString(raw, nameKeys)
	if name == "" {
		return item, fmt.Errorf("catalog record has no name key: %v", keysOf(raw))
	}
	item.Name = name
	item.Category = firstString(raw, categoryKeys)
	item.Price = firstPrice(raw, priceKeys)
	item.Attributes = firstStringList(raw, attributeKeys)
	item.Exclusions = firstStringList(raw, exclusionKeys)
	return item, nil
}

// NormalizeRecords converts a raw feed, skipping unusable records.
func NormalizeRecords(raws []map[string]any) []schema.CatalogItem {
	out := make([]schema.CatalogItem, 0, len(raws))
	for _, raw := range raws {
		if item, err := NormalizeRecord(raw); err == nil {
			out = append(out, item)
		}
	}
	return out
}

func firstString(raw map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func firstPrice(raw map[string]any, keys []string) float64 {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t
		case float32:
			return float64(t)
		case int:
			return float64(t)
		case int64:
			return float64(t)
		case string:
			s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "$"))
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func firstStringList(raw map[string]any, keys []string) []string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case []string:
			return cleanList(t)
		case []any:
			out := make([]string, 0, len(t))
			for _, item := range t {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			if list := cleanList(out); len(list) > 0 {
				return list
			}
		case string:
			if list := cleanList(strings.Split(t, ",")); len(list) > 0 {
				return list
			}
		}
	}
	return nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func keysOf(raw map[string]any) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	return keys
}
