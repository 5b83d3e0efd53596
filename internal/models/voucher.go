// internal/models/voucher.go
package models

// VoucherKindDiscount is the only voucher kind with monetary effect on the
// initial cost. Other kinds (apr, percentage) ride along for display only.
const VoucherKindDiscount = "discount"

// Voucher is a discount or incentive instrument with applicability
// predicates and an expiry date.
type Voucher struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Conditions       string   `json:"conditionsApplyText"`
	ValidUntil       string   `json:"validUntil"` // "2006-01-02", inclusive
	Kind             string   `json:"type"`
	Value            float64  `json:"value"`
	ApplicableMakes  []string `json:"applicableMakes,omitempty"`
	ApplicableModels []string `json:"applicableModels,omitempty"`
	ApplicableYears  []int    `json:"applicableYears,omitempty"`
	ExcludedTrims    []string `json:"excludedTrims,omitempty"`
	MemberLevels     []string `json:"memberLevels,omitempty"`
	MinVehiclePrice  float64  `json:"minVehiclePrice"`
}
