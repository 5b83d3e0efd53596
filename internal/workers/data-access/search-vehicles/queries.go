// internal/workers/data-access/search-vehicles/queries.go
package searchvehicles

import (
	"autotrader-workers/internal/models"
)

// buildKnnQuery renders the Elasticsearch search body for a filtered kNN
// retrieval. Hard constraints go into the knn filter so they restrict the
// vector search itself; soft brand/body-type wishes are left to the scoring
// stage, which sees the full payload anyway.
func buildKnnQuery(vector []float64, f models.SearchFilters, k, numCandidates int) map[string]interface{} {
	knn := map[string]interface{}{
		"field":          "embedding",
		"query_vector":   vector,
		"k":              k,
		"num_candidates": numCandidates,
	}
	if filter := buildFilterClauses(f); len(filter) > 0 {
		knn["filter"] = map[string]interface{}{
			"bool": map[string]interface{}{"must": filter},
		}
	}

	return map[string]interface{}{
		"knn":  knn,
		"size": k,
		"_source": map[string]interface{}{
			"excludes": []string{"embedding"},
		},
	}
}

func buildFilterClauses(f models.SearchFilters) []interface{} {
	var clauses []interface{}

	term := func(field string, value interface{}) {
		clauses = append(clauses, map[string]interface{}{
			"term": map[string]interface{}{field: value},
		})
	}

	if f.State != "" {
		term("state", f.State)
	}
	if f.Zip != "" {
		term("zip", f.Zip)
	}
	if f.EngineType != "" {
		term("engineType", f.EngineType)
	}
	if f.EcoFriendly != nil {
		term("ecoFriendly", *f.EcoFriendly)
	}
	if f.Condition != "" {
		term("condition", f.Condition)
	}
	if f.PriceRange != nil {
		clauses = append(clauses, rangeClause("price", f.PriceRange))
	}
	if f.PaymentRange != nil {
		clauses = append(clauses, rangeClause("monthlyPayment", f.PaymentRange))
	}
	return clauses
}

func rangeClause(field string, r *models.RangeFilter) map[string]interface{} {
	return map[string]interface{}{
		"range": map[string]interface{}{
			field: map[string]interface{}{"gte": r.GTE, "lte": r.LTE},
		},
	}
}
