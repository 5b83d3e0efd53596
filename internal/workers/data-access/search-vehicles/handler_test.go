// internal/workers/data-access/search-vehicles/handler_test.go
package searchvehicles

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "autotrader-workers/internal/common/errors"
	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/models"
)

type stubEmbedder struct {
	vector []float64
	err    error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return s.vector, s.err
}

type stubSearcher struct {
	response  string
	err       error
	gotIndex  string
	gotBody   map[string]interface{}
	callCount int
}

func (s *stubSearcher) Search(ctx context.Context, index string, body io.Reader) ([]byte, error) {
	s.callCount++
	s.gotIndex = index
	raw, _ := io.ReadAll(body)
	_ = json.Unmarshal(raw, &s.gotBody)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.response), nil
}

const sampleResponse = `{
  "hits": {
    "total": {"value": 2},
    "hits": [
      {"_id": "v-1", "_score": 0.93, "_source": {"year": 2023, "make": "Toyota", "model": "Camry", "price": 28000}},
      {"_id": "v-2", "_score": 0.88, "_source": {"year": 2022, "make": "Honda", "model": "CR-V", "price": 31000}}
    ]
  }
}`

func newSearchHandler(t *testing.T, emb *stubEmbedder, search *stubSearcher) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), emb, search, logger.NewTestLogger(t))
}

func TestExecute_DecodesHitsIntoCandidates(t *testing.T) {
	search := &stubSearcher{response: sampleResponse}
	h := newSearchHandler(t, &stubEmbedder{vector: []float64{0.1, 0.2}}, search)

	out, err := h.Execute(context.Background(), &Input{QueryText: "family sedan"})

	require.NoError(t, err)
	assert.Equal(t, "vehicles", search.gotIndex)
	assert.Equal(t, int64(2), out.TotalHits)
	require.Len(t, out.Candidates, 2)
	assert.Equal(t, "v-1", out.Candidates[0].ID)
	assert.Equal(t, 0.93, out.Candidates[0].Similarity)
	assert.Equal(t, "Toyota", out.Candidates[0].Payload.Make)
	assert.Equal(t, 28000.0, out.Candidates[0].Payload.Price)
}

func TestExecute_SendsQueryVectorAndFilters(t *testing.T) {
	search := &stubSearcher{response: sampleResponse}
	h := newSearchHandler(t, &stubEmbedder{vector: []float64{0.5, 0.6}}, search)

	eco := true
	_, err := h.Execute(context.Background(), &Input{
		QueryText: "eco commuter",
		Filters: models.SearchFilters{
			State:       "TX",
			EcoFriendly: &eco,
			PriceRange:  &models.RangeFilter{GTE: 27500, LTE: 28500},
		},
		Limit: 5,
	})
	require.NoError(t, err)

	knn, ok := search.gotBody["knn"].(map[string]interface{})
	require.True(t, ok, "body must carry a knn clause")
	assert.Equal(t, []interface{}{0.5, 0.6}, knn["query_vector"])
	assert.Equal(t, 5.0, knn["k"])

	filter := knn["filter"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]interface{})
	assert.Len(t, filter, 3)
}

func TestExecute_LimitDefaultsAndClamps(t *testing.T) {
	cases := map[string]struct {
		limit int
		want  float64
	}{
		"zero gets default": {0, 20},
		"huge gets clamped": {500, 100},
		"sane passes":       {7, 7},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			search := &stubSearcher{response: sampleResponse}
			h := newSearchHandler(t, &stubEmbedder{vector: []float64{1}}, search)

			_, err := h.Execute(context.Background(), &Input{QueryText: "q", Limit: tc.limit})

			require.NoError(t, err)
			knn := search.gotBody["knn"].(map[string]interface{})
			assert.Equal(t, tc.want, knn["k"])
		})
	}
}

func TestExecute_EmbedderFailurePropagates(t *testing.T) {
	embErr := cerrors.NewEmbeddingFailedError(errors.New("provider down"))
	search := &stubSearcher{response: sampleResponse}
	h := newSearchHandler(t, &stubEmbedder{err: embErr}, search)

	_, err := h.Execute(context.Background(), &Input{QueryText: "q"})

	require.Error(t, err)
	assert.Equal(t, "EMBEDDING_FAILED", errorCode(err))
	assert.Zero(t, search.callCount, "no search without a query vector")
}

func TestExecute_SearchFailureMapsToVectorSearchFailed(t *testing.T) {
	search := &stubSearcher{err: errors.New("connection refused")}
	h := newSearchHandler(t, &stubEmbedder{vector: []float64{1}}, search)

	_, err := h.Execute(context.Background(), &Input{QueryText: "q"})

	require.Error(t, err)
	assert.Equal(t, "VECTOR_SEARCH_FAILED", errorCode(err))
}

func TestExecute_NoHitsIsEmptyNotError(t *testing.T) {
	search := &stubSearcher{response: `{"hits": {"total": {"value": 0}, "hits": []}}`}
	h := newSearchHandler(t, &stubEmbedder{vector: []float64{1}}, search)

	out, err := h.Execute(context.Background(), &Input{QueryText: "q"})

	require.NoError(t, err)
	assert.Empty(t, out.Candidates)
	assert.Zero(t, out.TotalHits)
}

func TestBuildKnnQuery_NoFiltersMeansNoFilterClause(t *testing.T) {
	body := buildKnnQuery([]float64{1, 2}, models.SearchFilters{}, 10, 200)

	knn := body["knn"].(map[string]interface{})
	_, hasFilter := knn["filter"]
	assert.False(t, hasFilter)
	assert.Equal(t, 200, knn["num_candidates"])
}

func TestBuildKnnQuery_ExcludesEmbeddingFromSource(t *testing.T) {
	body := buildKnnQuery([]float64{1}, models.SearchFilters{}, 10, 200)

	src := body["_source"].(map[string]interface{})
	assert.Equal(t, []string{"embedding"}, src["excludes"])
}
