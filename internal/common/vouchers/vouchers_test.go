// internal/common/vouchers/vouchers_test.go
package vouchers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"autotrader-workers/internal/models"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func camry() models.Vehicle {
	return models.Vehicle{
		ID:        "veh-1",
		Year:      2023,
		Make:      "Toyota",
		Model:     "Camry",
		Trim:      "LE",
		BasePrice: 28000,
	}
}

func TestIsApplicable_MakeRestriction(t *testing.T) {
	v := models.Voucher{ApplicableMakes: []string{"Toyota"}}

	assert.True(t, IsApplicable(v, camry(), 2023, "standard"))

	honda := camry()
	honda.Make = "Honda"
	assert.False(t, IsApplicable(v, honda, 2023, "standard"))
}

func TestIsApplicable_WildcardMatchesAnyMake(t *testing.T) {
	star := models.Voucher{ApplicableMakes: []string{"*"}}
	all := models.Voucher{ApplicableMakes: []string{"ALL"}}

	honda := camry()
	honda.Make = "Honda"

	assert.True(t, IsApplicable(star, honda, 2023, "standard"))
	assert.True(t, IsApplicable(all, honda, 2023, "standard"))
}

func TestIsApplicable_EmptyPredicatesMatchEverything(t *testing.T) {
	assert.True(t, IsApplicable(models.Voucher{}, camry(), 2023, ""))
}

func TestIsApplicable_YearRestriction(t *testing.T) {
	v := models.Voucher{ApplicableYears: []int{2022, 2023}}

	assert.True(t, IsApplicable(v, camry(), 2023, "standard"))
	assert.False(t, IsApplicable(v, camry(), 2024, "standard"))
}

func TestIsApplicable_ExcludedTrim(t *testing.T) {
	v := models.Voucher{ExcludedTrims: []string{"LE"}}

	assert.False(t, IsApplicable(v, camry(), 2023, "standard"))

	xle := camry()
	xle.Trim = "XLE"
	assert.True(t, IsApplicable(v, xle, 2023, "standard"))
}

func TestIsApplicable_MemberLevels(t *testing.T) {
	v := models.Voucher{MemberLevels: []string{"premium"}}

	assert.True(t, IsApplicable(v, camry(), 2023, "premium"))
	assert.False(t, IsApplicable(v, camry(), 2023, "standard"))
}

func TestIsApplicable_MinVehiclePrice(t *testing.T) {
	v := models.Voucher{MinVehiclePrice: 30000}

	assert.False(t, IsApplicable(v, camry(), 2023, "standard"))

	expensive := camry()
	expensive.BasePrice = 30000
	assert.True(t, IsApplicable(v, expensive, 2023, "standard"))
}

func TestIsValidOn_InclusiveExpiry(t *testing.T) {
	sameDay := models.Voucher{ValidUntil: "2025-06-15"}
	dayBefore := models.Voucher{ValidUntil: "2025-06-14"}
	future := models.Voucher{ValidUntil: "2025-12-31"}
	garbage := models.Voucher{ValidUntil: "not-a-date"}

	assert.True(t, IsValidOn(sameDay, testNow))
	assert.False(t, IsValidOn(dayBefore, testNow))
	assert.True(t, IsValidOn(future, testNow))
	assert.False(t, IsValidOn(garbage, testNow))
}

func TestDiscount_FiltersAndPreservesOrder(t *testing.T) {
	all := []models.Voucher{
		{ID: "a", Kind: "apr", ValidUntil: "2025-12-31"},
		{ID: "b", Kind: models.VoucherKindDiscount, Value: 500, ValidUntil: "2025-12-31"},
		{ID: "c", Kind: models.VoucherKindDiscount, Value: 1000, ValidUntil: "2024-01-01"},
		{ID: "d", Kind: models.VoucherKindDiscount, Value: 750, ValidUntil: "2025-12-31", ApplicableMakes: []string{"Honda"}},
		{ID: "e", Kind: models.VoucherKindDiscount, Value: 250, ValidUntil: "2025-12-31"},
	}

	got := Discount(all, camry(), 2023, "standard", testNow)

	ids := make([]string, 0, len(got))
	for _, v := range got {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"b", "e"}, ids)
}

func TestDiscount_EmptyInput(t *testing.T) {
	assert.Empty(t, Discount(nil, camry(), 2023, "standard", testNow))
}
