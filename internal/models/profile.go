// internal/models/profile.go
package models

// Finance describes how the buyer intends to pay.
type Finance struct {
	PaymentMethod   string   `json:"paymentMethod"` // "cash" | "loan" | "lease"
	CashBudget      *float64 `json:"cashBudget,omitempty"`
	MonthlyCapacity *float64 `json:"monthlyCapacity,omitempty"`
}

// Profile is the buyer profile supplied once per recommendation request.
// Workers treat it as read-only.
type Profile struct {
	State   string   `json:"state"`
	Zip     string   `json:"zip"`
	Finance Finance  `json:"finance"`
	Habit   string   `json:"habit,omitempty"`
	Colors  []string `json:"colors,omitempty"`

	Age               int  `json:"age,omitempty"`
	FamilySize        int  `json:"familySize,omitempty"`
	DrivingExperience int  `json:"drivingExperience,omitempty"`
	AccidentHistory   bool `json:"accidentHistory,omitempty"`

	AnnualMileage int    `json:"annualMileage,omitempty"`
	Parking       string `json:"parking,omitempty"`
	CargoNeed     string `json:"cargoNeed,omitempty"`

	BrandPreference       []string `json:"brandPreference,omitempty"`
	BodyTypes             []string `json:"bodyTypes,omitempty"`
	Features              []string `json:"features,omitempty"`
	SafetyPriority        string   `json:"safetyPriority,omitempty"`
	EnvironmentalPriority string   `json:"environmentalPriority,omitempty"`
	EcoFriendly           *bool    `json:"ecoFriendly,omitempty"`
	EngineType            string   `json:"engineType,omitempty"`

	MemberLevel         string `json:"memberLevel,omitempty"`     // "premium" | "standard" | "first_time_buyer"
	CustomerTier        string `json:"customerTier,omitempty"`    // "vip" | "loyal" | "regular" | "new"
	ConditionPreference string `json:"conditionPreference,omitempty"` // "new" | "used" | "both"
}

// AnnualMileageOrDefault substitutes the documented default when the profile
// omits mileage.
func (p Profile) AnnualMileageOrDefault() int {
	if p.AnnualMileage <= 0 {
		return 12000
	}
	return p.AnnualMileage
}

// Preferences is the structured preference bundle consumed by the rule
// scorer. It is derived from the profile but kept separate so callers can
// override individual fields per request.
type Preferences struct {
	EngineType         string   `json:"engineType,omitempty"`
	BodyTypes          []string `json:"bodyTypes,omitempty"`
	PriceMax           *float64 `json:"priceMax,omitempty"`
	PreferredMakes     []string `json:"preferredMakes,omitempty"`
	PreferredModels    []string `json:"preferredModels,omitempty"`
	UseCaseKeyword     string   `json:"useCaseKeyword,omitempty"`
	DrivingEnvironment string   `json:"drivingEnvironment,omitempty"`
}
