// internal/models/search.go
package models

// RangeFilter is an inclusive numeric interval.
type RangeFilter struct {
	GTE float64 `json:"gte"`
	LTE float64 `json:"lte"`
}

// SearchFilters is the structured half of a candidate retrieval request.
// Must fields restrict the candidate set; preferred fields only boost
// matching candidates within it.
type SearchFilters struct {
	State        string       `json:"state,omitempty"`
	Zip          string       `json:"zip,omitempty"`
	EngineType   string       `json:"engineType,omitempty"`
	EcoFriendly  *bool        `json:"ecoFriendly,omitempty"`
	Condition    string       `json:"condition,omitempty"`
	PriceRange   *RangeFilter `json:"priceRange,omitempty"`
	PaymentRange *RangeFilter `json:"paymentRange,omitempty"`

	PreferredBrands    []string `json:"preferredBrands,omitempty"`
	PreferredBodyTypes []string `json:"preferredBodyTypes,omitempty"`
}
