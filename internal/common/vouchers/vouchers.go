// internal/common/vouchers/vouchers.go

// Package vouchers evaluates voucher applicability predicates and filters
// voucher sets down to the discounts a buyer can actually use.
package vouchers

import (
	"strings"
	"time"

	"autotrader-workers/internal/models"
)

const dateLayout = "2006-01-02"

// isWildcard reports whether a list token opens the predicate to any value.
func isWildcard(token string) bool {
	return token == "*" || strings.EqualFold(token, "all")
}

func listMatches(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	for _, entry := range list {
		if isWildcard(entry) || strings.EqualFold(entry, value) {
			return true
		}
	}
	return false
}

// IsApplicable reports whether the voucher's predicates all hold for the
// given vehicle, model year, and membership level. Expiry is not checked
// here, only applicability.
func IsApplicable(v models.Voucher, vehicle models.Vehicle, year int, memberLevel string) bool {
	if !listMatches(v.ApplicableMakes, vehicle.Make) {
		return false
	}
	if !listMatches(v.ApplicableModels, vehicle.Model) {
		return false
	}

	if len(v.ApplicableYears) > 0 {
		found := false
		for _, y := range v.ApplicableYears {
			if y == year {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, trim := range v.ExcludedTrims {
		if strings.EqualFold(trim, vehicle.Trim) {
			return false
		}
	}

	if len(v.MemberLevels) > 0 {
		found := false
		for _, level := range v.MemberLevels {
			if strings.EqualFold(level, memberLevel) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return vehicle.BasePrice >= v.MinVehiclePrice
}

// IsValidOn reports whether the voucher has not expired as of the given
// time. The valid-until date is inclusive; an unparsable date counts as
// expired.
func IsValidOn(v models.Voucher, now time.Time) bool {
	validUntil, err := time.Parse(dateLayout, v.ValidUntil)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !validUntil.Before(today)
}

// Discount returns the vouchers of kind "discount" that are applicable to
// the vehicle and still valid at `now`. Input order is preserved; callers
// that apply a single voucher take the first element.
func Discount(all []models.Voucher, vehicle models.Vehicle, year int, memberLevel string, now time.Time) []models.Voucher {
	result := make([]models.Voucher, 0, len(all))
	for _, v := range all {
		if v.Kind != models.VoucherKindDiscount {
			continue
		}
		if !IsValidOn(v, now) {
			continue
		}
		if !IsApplicable(v, vehicle, year, memberLevel) {
			continue
		}
		result = append(result, v)
	}
	return result
}
