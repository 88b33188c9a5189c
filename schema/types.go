package schema

import "time"

// Category is the coarse intent bucket assigned to a query.
type Category string

const (
	CategoryGreeting        Category = "greeting"
	CategoryCatalogOverview Category = "catalog_overview"
	CategorySpecificItem    Category = "specific_item"
	CategoryRecommendation  Category = "recommendation"
	CategoryHours           Category = "hours"
	CategoryDietaryFilter   Category = "dietary_filter"
	CategoryOther           Category = "other"
)

// Categories lists every valid category value.
func Categories() []Category {
	return []Category{
		CategoryGreeting,
		CategoryCatalogOverview,
		CategorySpecificItem,
		CategoryRecommendation,
		CategoryHours,
		CategoryDietaryFilter,
		CategoryOther,
	}
}

// DecodingProfile holds the generation parameters associated with a category.
type DecodingProfile struct {
	Temperature     float64 `json:"temperature" yaml:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens" yaml:"max_output_tokens"`
}

// Classification is the outcome of classifying a raw query.
// Produced fresh per request, never persisted.
type Classification struct {
	Category Category
	Language string // ISO-639-1-like tag, "en" when undetected
	Profile  DecodingProfile
}

// CatalogItem is the canonical shape of a sellable item. The catalog
// collaborator owns normalization; the core only reads immutable snapshots.
type CatalogItem struct {
	Name       string   `json:"name" yaml:"name"`
	Category   string   `json:"category" yaml:"category"`
	Price      float64  `json:"price" yaml:"price"`
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Exclusions []string `json:"exclusions,omitempty" yaml:"exclusions,omitempty"`
}

// JobStatus is the lifecycle state of a remote generation job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// GenerationJob describes a unit of work submitted to the inference backend.
// Transitions happen exclusively on the backend side; the client only polls.
type GenerationJob struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Result    string    `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
