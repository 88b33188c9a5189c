package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"concierge/schema"
)

const keyPrefix = "resp"

// Normalize canonicalizes raw query text for key construction: lowercase,
// trim, collapse internal whitespace. Idempotent, so the hit rate is
// insensitive to casing and spacing.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// Key builds the composite cache key for (tenant, category, query). Two raw
// queries that normalize identically map to the same key. Tenant and
// category stay readable in the key so pattern deletes can target them; only
// the query text is hashed.
func Key(tenantID string, cat schema.Category, rawText string) string {
	sum := sha1.Sum([]byte(Normalize(rawText)))
	return keyPrefix + ":" + tenantID + ":" + string(cat) + ":" + hex.EncodeToString(sum[:])
}

// TenantPattern returns the glob pattern matching every key of a tenant.
func TenantPattern(tenantID string) string {
	return keyPrefix + ":" + tenantID + ":*"
}
