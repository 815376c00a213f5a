package domain

import "time"

// VehicleClass represents the class of vehicle serving a ride.
type VehicleClass string

const (
	VehicleClassBike  VehicleClass = "bike"
	VehicleClassAuto  VehicleClass = "auto"
	VehicleClassCar   VehicleClass = "car"
	VehicleClassSedan VehicleClass = "sedan"
)

// VehicleRates holds the per-class pricing parameters.
type VehicleRates struct {
	BaseFare         int64   // Flat amount covering the included distance
	IncludedKm       float64 // Distance covered by the base fare
	PerKmRate        int64   // Charged per km beyond IncludedKm
	MinimumFare      int64   // Floor for the driver base amount
	WaitingPerMinute int64   // Charged per minute of waiting
}

// SurgeWindow is a named time-of-day window with a customer-facing multiplier.
// Windows may wrap past midnight (StartHour > EndHour).
type SurgeWindow struct {
	Name       string
	StartHour  int
	EndHour    int
	Multiplier float64
}

// DemandBand maps a requests-per-driver ratio range to a multiplier.
// A band with HasMax == false matches any ratio >= MinRatio.
type DemandBand struct {
	MinRatio   float64
	MaxRatio   float64
	HasMax     bool
	Multiplier float64
}

// NightWindow defines the overnight surcharge window and percentage.
type NightWindow struct {
	StartHour int
	EndHour   int
	Percent   float64
}

// FareConfiguration is a versioned pricing snapshot. Exactly one version is
// active at a time; edits publish a new version instead of mutating history.
type FareConfiguration struct {
	ID                string
	Version           int64
	Active            bool
	Rates             map[VehicleClass]VehicleRates
	SurgeWindows      []SurgeWindow // Evaluated in declaration order, first match wins
	DemandBands       []DemandBand  // Evaluated in declaration order, first match wins
	Night             NightWindow
	TaxPercent        float64
	CommissionPercent float64
	CreatedAt         time.Time
}

// RatesFor returns the rates for a vehicle class.
func (c *FareConfiguration) RatesFor(class VehicleClass) (VehicleRates, bool) {
	rates, ok := c.Rates[class]
	return rates, ok
}

// FareQuote is an immutable fare breakdown. DriverEarnings is the driver's
// guaranteed payout: it never varies with surge or demand multipliers.
type FareQuote struct {
	VehicleClass   VehicleClass
	DistanceKm     float64
	WaitingMinutes float64
	BaseFare       int64
	DistanceFare   int64
	WaitingCharge  int64
	SurgeFactor    float64
	SurgedAmount   int64 // DriverEarnings scaled by SurgeFactor, customer-facing
	DriverEarnings int64
	Commission     int64
	Tax            int64
	NightSurcharge int64
	CustomerTotal  int64
	ConfigVersion  int64
	QuotedAt       time.Time
}
