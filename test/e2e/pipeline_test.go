// test/e2e/pipeline_test.go
//
// In-process run of the full recommendation pipeline. Each stage's output
// is merged into a shared variable map and the next stage's input is
// decoded from it, the same way Zeebe propagates process variables, so the
// test catches any drift between adjacent variable contracts. External
// systems are stubbed at the same seams the workers use in production: the
// embedder and chat client behind their interfaces, Elasticsearch behind
// the Searcher interface, Postgres via sqlmock, and Redis via miniredis.
package e2e

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autotrader-workers/internal/common/database"
	"autotrader-workers/internal/common/genai"
	"autotrader-workers/internal/common/logger"
	"autotrader-workers/internal/models"
	"autotrader-workers/pkg/registry"

	qc "autotrader-workers/internal/workers/data-access/query-catalog"
	"autotrader-workers/internal/workers/data-access/query-catalog/queries"
	sv "autotrader-workers/internal/workers/data-access/search-vehicles"
	brc "autotrader-workers/internal/workers/recommendation/build-recommendation"
	bvq "autotrader-workers/internal/workers/recommendation/build-vehicle-query"
	ct "autotrader-workers/internal/workers/recommendation/calculate-tco"
	fb "autotrader-workers/internal/workers/recommendation/filter-budget"
	rr "autotrader-workers/internal/workers/recommendation/refine-ranking"
	sc "autotrader-workers/internal/workers/recommendation/score-vehicles"
	ss "autotrader-workers/internal/workers/recommendation/select-strategy"
)

// pipelineVars mimics the Zeebe process variable store: a flat JSON object
// that each completed job merges its output into.
type pipelineVars map[string]json.RawMessage

func (v pipelineVars) set(t *testing.T, key string, val interface{}) {
	t.Helper()
	raw, err := json.Marshal(val)
	require.NoError(t, err)
	v[key] = raw
}

func (v pipelineVars) merge(t *testing.T, output interface{}) {
	t.Helper()
	raw, err := json.Marshal(output)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	for key, val := range fields {
		v[key] = val
	}
}

func (v pipelineVars) decode(t *testing.T, dst interface{}) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dst))
}

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	return []float64{1, 0, 0}, nil
}

type fixedSearcher struct{ response string }

func (s *fixedSearcher) Search(ctx context.Context, index string, body io.Reader) ([]byte, error) {
	return []byte(s.response), nil
}

type scriptedChat struct{ reply string }

func (s *scriptedChat) ChatCompletion(ctx context.Context, messages []genai.ChatMessage) (string, error) {
	return s.reply, nil
}

// The index holds two listings near the buyer: a hybrid Corolla inside the
// cash window once its voucher applies, and a CR-V priced well above it.
const searchResponse = `{
	"took": 4,
	"hits": {
		"total": {"value": 2},
		"hits": [
			{
				"_id": "cand-corolla",
				"_score": 0.93,
				"_source": {
					"year": 2022, "make": "Toyota", "model": "Corolla Hybrid",
					"trim": "LE", "color": "silver", "state": "TX", "zip": "75001",
					"bodyType": "sedan", "engineType": "hybrid",
					"useCase": "daily commute", "drivingEnvironment": "city",
					"description": "Fuel efficient hybrid sedan",
					"price": 28300, "monthlyPayment": 430,
					"condition": "new", "ecoFriendly": true
				}
			},
			{
				"_id": "cand-crv",
				"_score": 0.89,
				"_source": {
					"year": 2021, "make": "Honda", "model": "CR-V",
					"trim": "EX", "color": "white", "state": "TX", "zip": "75002",
					"bodyType": "suv", "engineType": "gasoline",
					"useCase": "family trips", "drivingEnvironment": "mixed",
					"description": "Spacious family SUV",
					"price": 34500, "monthlyPayment": 520,
					"condition": "used", "ecoFriendly": false
				}
			}
		]
	}
}`

var vehicleCols = []string{
	"id", "year", "make", "model", "trim", "color", "body_type", "fuel_type",
	"drivetrain", "transmission", "base_price", "monthly_payment", "mpg",
	"kwh_per_mile", "seats", "state", "zip", "condition", "description",
}

var voucherCols = []string{
	"id", "title", "description", "conditions_apply_text", "valid_until",
	"type", "value", "applicable_makes", "applicable_models", "applicable_years",
	"excluded_trims", "member_levels", "min_vehicle_price",
}

func corollaRow() []driver.Value {
	return []driver.Value{
		"veh-corolla", 2022, "Toyota", "Corolla Hybrid", "LE", "silver", "sedan", "hybrid",
		"FWD", "automatic", 28300.0, 430.0, 50.0, 0.0,
		5, "TX", "75001", "new", "Fuel efficient hybrid sedan",
	}
}

func crvRow() []driver.Value {
	return []driver.Value{
		"veh-crv", 2021, "Honda", "CR-V", "EX", "white", "suv", "gas",
		"AWD", "automatic", 34500.0, 520.0, 29.0, 0.0,
		5, "TX", "75002", "used", "Spacious family SUV",
	}
}

func toyotaVoucherRow() []driver.Value {
	return []driver.Value{
		"vc-toyota-400", "Toyota Loyalty Bonus", "$400 off any Toyota", "See dealer",
		"2030-12-31", "discount", 400.0, "{Toyota}", "{}", "{}", "{}", "{}", 0.0,
	}
}

func buyerProfile() models.Profile {
	budget := 28000.0
	eco := true
	return models.Profile{
		State:           "TX",
		Zip:             "75001",
		Finance:         models.Finance{PaymentMethod: "cash", CashBudget: &budget},
		Habit:           "daily commute",
		AnnualMileage:   12000,
		BrandPreference: []string{"Toyota"},
		EngineType:      "hybrid",
		EcoFriendly:     &eco,
		MemberLevel:     "premium",
		CustomerTier:    "loyal",
	}
}

func TestRecommendationPipeline(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)
	reg := registry.Defaults()

	vars := pipelineVars{}
	vars.set(t, "profile", buyerProfile())
	vars.set(t, "customerTier", "loyal")
	vars.set(t, "queryType", queries.QueryTypeCatalogSnapshot)

	// build-vehicle-query
	var queryIn bvq.Input
	vars.decode(t, &queryIn)
	queryOut := bvq.NewHandler(bvq.LoadConfig(), log).Execute(&queryIn)
	require.NotEmpty(t, queryOut.QueryText)
	assert.Equal(t, "TX", queryOut.Filters.State)
	require.NotNil(t, queryOut.Filters.PriceRange)
	assert.Equal(t, 27500.0, queryOut.Filters.PriceRange.GTE)
	assert.Equal(t, 28500.0, queryOut.Filters.PriceRange.LTE)
	vars.merge(t, queryOut)

	// select-strategy
	var strategyIn ss.Input
	vars.decode(t, &strategyIn)
	strategyOut, err := ss.NewHandler(ss.LoadConfig(), log).Execute(ctx, &strategyIn)
	require.NoError(t, err)
	assert.Equal(t, "loyalty", strategyOut.Strategy)
	vars.merge(t, strategyOut)

	// search-vehicles
	var searchIn sv.Input
	vars.decode(t, &searchIn)
	searchOut, err := sv.NewHandler(sv.LoadConfig(), fixedEmbedder{}, &fixedSearcher{response: searchResponse}, log).
		Execute(ctx, &searchIn)
	require.NoError(t, err)
	require.Len(t, searchOut.Candidates, 2)
	vars.merge(t, searchOut)

	// score-vehicles: the loyalty campaign promotes Toyota, so the Corolla
	// must come out on top regardless of raw similarity.
	var scoreIn sc.Input
	vars.decode(t, &scoreIn)
	scoreOut, err := sc.NewHandler(sc.LoadConfig(), fixedEmbedder{}, reg, log).Execute(ctx, &scoreIn)
	require.NoError(t, err)
	require.Len(t, scoreOut.RankedCandidates, 2)
	assert.Equal(t, "cand-corolla", scoreOut.RankedCandidates[0].ID)
	vars.merge(t, scoreOut)

	// refine-ranking: the model prefers the CR-V for this family, and the
	// refined order wins over the scored one.
	chat := &scriptedChat{reply: `[
		{"id": "cand-crv", "reason": "Roomier choice for family trips"},
		{"id": "cand-corolla", "reason": "Cheapest to run day to day"}
	]`}
	var refineIn rr.Input
	vars.decode(t, &refineIn)
	refineOut := rr.NewHandler(rr.LoadConfig(), chat, reg, log).Execute(ctx, &refineIn)
	require.True(t, refineOut.RerankApplied)
	require.Len(t, refineOut.RankedCandidates, 2)
	assert.Equal(t, "cand-crv", refineOut.RankedCandidates[0].ID)
	vars.merge(t, refineOut)

	// query-catalog
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer sqlDB.Close()
	mock.ExpectQuery("SELECT (.+) FROM vehicles ORDER BY id").
		WillReturnRows(sqlmock.NewRows(vehicleCols).AddRow(corollaRow()...).AddRow(crvRow()...))
	mock.ExpectQuery("SELECT (.+) FROM vouchers ORDER BY id").
		WillReturnRows(sqlmock.NewRows(voucherCols).AddRow(toyotaVoucherRow()...))

	mr := miniredis.RunT(t)
	cache := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	var catalogIn qc.Input
	vars.decode(t, &catalogIn)
	catalogOut, err := qc.NewHandler(qc.LoadConfig(), sqlDB, cache, log).Execute(ctx, &catalogIn)
	require.NoError(t, err)
	require.Len(t, catalogOut.Vehicles, 2)
	require.Len(t, catalogOut.Vouchers, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
	vars.merge(t, catalogOut)

	// filter-budget: the CR-V overshoots the cash window, the Corolla fits
	// once the $400 Toyota voucher applies.
	var budgetIn fb.Input
	vars.decode(t, &budgetIn)
	budgetOut, err := fb.NewHandler(fb.LoadConfig(), log).Execute(ctx, &budgetIn)
	require.NoError(t, err)
	require.Len(t, budgetOut.Matches, 1)
	match := budgetOut.Matches[0]
	assert.Equal(t, "veh-corolla", match.Vehicle.ID)
	assert.Equal(t, 27900.0, match.EffectivePrice)
	require.NotNil(t, match.AppliedVoucher)
	assert.Equal(t, "vc-toyota-400", match.AppliedVoucher.ID)
	vars.merge(t, budgetOut)

	// calculate-tco
	var tcoIn ct.Input
	vars.decode(t, &tcoIn)
	tcoOut, err := ct.NewHandler(ct.LoadConfig(), reg, log).Execute(ctx, &tcoIn)
	require.NoError(t, err)
	require.Len(t, tcoOut.Results, 1)
	result := tcoOut.Results[0]
	assert.Greater(t, result.Total, 27900.0)
	for _, category := range []string{
		ct.CategoryInitialCost, ct.CategoryFuelCost, ct.CategoryInsurance,
		ct.CategoryMaintenance, ct.CategoryParking, ct.CategoryToll,
	} {
		assert.Contains(t, result.Breakdown, category)
	}
	assert.NotContains(t, result.Breakdown, ct.CategoryEnergyCost)
	assert.NotEmpty(t, result.AvailableVouchers)
	vars.merge(t, tcoOut)

	// build-recommendation
	var recIn brc.Input
	vars.decode(t, &recIn)
	recOut, err := brc.NewHandler(brc.LoadConfig(), log).Execute(&recIn)
	require.NoError(t, err)

	rec := recOut.Recommendation
	assert.NotEmpty(t, rec.Summary)
	require.Len(t, rec.RecommendedVehicles, 1)
	assert.Equal(t, "veh-corolla", rec.RecommendedVehicles[0].Vehicle.ID)
	assert.Equal(t, "TX, 75001", rec.YourProfile.Location)
	assert.Equal(t, "cash", rec.YourProfile.Budget.PaymentMethod)
	assert.Contains(t, rec.FinanceInfo.PaymentCapacity, "$28000")
	assert.Len(t, rec.YourProfile.SemanticPreferences, 2)
}

// A buyer whose window no listing can satisfy still gets a well formed,
// empty recommendation rather than an error anywhere in the chain.
func TestRecommendationPipelineNoAffordableVehicles(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	profile := buyerProfile()
	budget := 5000.0
	profile.Finance.CashBudget = &budget

	vars := pipelineVars{}
	vars.set(t, "profile", profile)
	vars.set(t, "rankedCandidates", []models.CandidateHit{})
	vars.set(t, "vehicles", []models.Vehicle{})
	vars.set(t, "vouchers", []models.Voucher{})

	var budgetIn fb.Input
	vars.decode(t, &budgetIn)
	budgetOut, err := fb.NewHandler(fb.LoadConfig(), log).Execute(ctx, &budgetIn)
	require.NoError(t, err)
	assert.Empty(t, budgetOut.Matches)
	vars.merge(t, budgetOut)

	var tcoIn ct.Input
	vars.decode(t, &tcoIn)
	tcoOut, err := ct.NewHandler(ct.LoadConfig(), registry.Defaults(), log).Execute(ctx, &tcoIn)
	require.NoError(t, err)
	assert.Empty(t, tcoOut.Results)
	vars.merge(t, tcoOut)

	var recIn brc.Input
	vars.decode(t, &recIn)
	recOut, err := brc.NewHandler(brc.LoadConfig(), log).Execute(&recIn)
	require.NoError(t, err)
	assert.NotNil(t, recOut.Recommendation.RecommendedVehicles)
	assert.Empty(t, recOut.Recommendation.RecommendedVehicles)
}
