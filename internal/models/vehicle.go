// internal/models/vehicle.go
package models

// Vehicle is an immutable catalog snapshot. The catalog store owns it;
// workers only read it.
type Vehicle struct {
	ID             string  `json:"id"`
	Year           int     `json:"year"`
	Make           string  `json:"make"`
	Model          string  `json:"model"`
	Trim           string  `json:"trim"`
	Color          string  `json:"color"`
	BodyType       string  `json:"bodyType"`
	FuelType       string  `json:"fuelType"` // "gas" | "diesel" | "hybrid" | "EV"
	Drivetrain     string  `json:"drivetrain"`
	Transmission   string  `json:"transmission"`
	BasePrice      float64 `json:"basePrice"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	MPG            float64 `json:"mpg"`        // gas/diesel/hybrid only
	KWhPerMile     float64 `json:"kwhPerMile"` // EV only
	Seats          int     `json:"seats"`
	State          string  `json:"state"`
	Zip            string  `json:"zip"`
	Condition      string  `json:"condition"` // "new" | "used"
	Description    string  `json:"description"`
}

// IsEV reports whether energy cost applies instead of fuel cost.
func (v Vehicle) IsEV() bool {
	return v.FuelType == "EV"
}
