package service

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
)

// testConfig returns a configuration matching the standard auto pricing:
// base 40 covering 2km, 17/km beyond, commission 10%, tax 5%.
func testConfig() *domain.FareConfiguration {
	return &domain.FareConfiguration{
		ID:      "cfg-1",
		Version: 3,
		Active:  true,
		Rates: map[domain.VehicleClass]domain.VehicleRates{
			domain.VehicleClassAuto: {
				BaseFare:         40,
				IncludedKm:       2,
				PerKmRate:        17,
				MinimumFare:      50,
				WaitingPerMinute: 2,
			},
			domain.VehicleClassBike: {
				BaseFare:         25,
				IncludedKm:       2,
				PerKmRate:        10,
				MinimumFare:      30,
				WaitingPerMinute: 1,
			},
		},
		Night: domain.NightWindow{
			StartHour: 22,
			EndHour:   5,
			Percent:   0,
		},
		TaxPercent:        5,
		CommissionPercent: 10,
	}
}

// daytime is an hour with no surge window and no night surcharge.
var daytime = time.Date(2026, 1, 15, 11, 30, 0, 0, time.UTC)

func TestQuote_StandardAutoFare(t *testing.T) {
	t.Parallel()

	quote, err := Quote(testConfig(), domain.VehicleClassAuto, 5, 0, daytime, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// base 40 + 3km * 17 = 91
	if quote.DriverEarnings != 91 {
		t.Errorf("expected driver earnings 91, got %d", quote.DriverEarnings)
	}
	if quote.Commission != 9 {
		t.Errorf("expected commission 9, got %d", quote.Commission)
	}
	if quote.Tax != 5 {
		t.Errorf("expected tax 5, got %d", quote.Tax)
	}
	if quote.NightSurcharge != 0 {
		t.Errorf("expected no night surcharge, got %d", quote.NightSurcharge)
	}
	if quote.CustomerTotal != 105 {
		t.Errorf("expected customer total 105, got %d", quote.CustomerTotal)
	}
}

func TestQuote_SurgeOnlyAffectsCustomerTotal(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SurgeWindows = []domain.SurgeWindow{
		{Name: "midday", StartHour: 11, EndHour: 13, Multiplier: 1.4},
	}

	surged, err := Quote(cfg, domain.VehicleClassAuto, 5, 0, daytime, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Driver payout is fixed before surge.
	if surged.DriverEarnings != 91 {
		t.Errorf("expected driver earnings 91 under surge, got %d", surged.DriverEarnings)
	}
	if surged.SurgedAmount != 127 {
		t.Errorf("expected surged amount 127, got %d", surged.SurgedAmount)
	}
	// Commission stays on the un-surged base.
	if surged.Commission != 9 {
		t.Errorf("expected commission 9 under surge, got %d", surged.Commission)
	}
	if surged.Tax != 7 {
		t.Errorf("expected tax 7 under surge, got %d", surged.Tax)
	}
	if surged.CustomerTotal != 143 {
		t.Errorf("expected customer total 143, got %d", surged.CustomerTotal)
	}

	unsurged, err := Quote(cfg, domain.VehicleClassAuto, 5, 0, daytime, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unsurged.DriverEarnings != surged.DriverEarnings {
		t.Error("driver earnings must not depend on surge being applied")
	}
	if unsurged.Commission != surged.Commission {
		t.Error("commission must not depend on surge being applied")
	}
}

func TestQuote_WithinIncludedDistance(t *testing.T) {
	t.Parallel()

	for _, distance := range []float64{0, 0.5, 1, 1.9, 2} {
		quote, err := Quote(testConfig(), domain.VehicleClassAuto, distance, 0, daytime, false)
		if err != nil {
			t.Fatalf("distance %.1f: unexpected error: %v", distance, err)
		}
		if quote.DistanceFare != 0 {
			t.Errorf("distance %.1f: expected no distance fare, got %d", distance, quote.DistanceFare)
		}
		// base 40 < minimum 50, so the floor applies.
		if quote.DriverEarnings != 50 {
			t.Errorf("distance %.1f: expected minimum fare 50, got %d", distance, quote.DriverEarnings)
		}
	}
}

func TestQuote_MonotonicInDistance(t *testing.T) {
	t.Parallel()

	var prev int64 = -1
	for distance := 2.0; distance <= 30; distance += 0.7 {
		quote, err := Quote(testConfig(), domain.VehicleClassAuto, distance, 0, daytime, false)
		if err != nil {
			t.Fatalf("distance %.1f: unexpected error: %v", distance, err)
		}
		if quote.DriverEarnings < prev {
			t.Fatalf("driver earnings decreased from %d to %d at distance %.1f", prev, quote.DriverEarnings, distance)
		}
		prev = quote.DriverEarnings
	}
}

func TestQuote_Deterministic(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	first, err := Quote(cfg, domain.VehicleClassAuto, 7.3, 4, daytime, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Quote(cfg, domain.VehicleClassAuto, 7.3, 4, daytime, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *first != *second {
		t.Errorf("quoting the same inputs twice differed:\n%+v\n%+v", *first, *second)
	}
}

func TestQuote_WaitingCharge(t *testing.T) {
	t.Parallel()

	quote, err := Quote(testConfig(), domain.VehicleClassAuto, 5, 10, daytime, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quote.WaitingCharge != 20 {
		t.Errorf("expected waiting charge 20, got %d", quote.WaitingCharge)
	}
	if quote.DriverEarnings != 111 {
		t.Errorf("expected driver earnings 111, got %d", quote.DriverEarnings)
	}
}

func TestQuote_NightSurcharge(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Night.Percent = 5

	lateNight := time.Date(2026, 1, 15, 23, 15, 0, 0, time.UTC)
	quote, err := Quote(cfg, domain.VehicleClassAuto, 5, 0, lateNight, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// round((91 + 9 + 5) * 5%) = 5
	if quote.NightSurcharge != 5 {
		t.Errorf("expected night surcharge 5, got %d", quote.NightSurcharge)
	}
	if quote.CustomerTotal != 110 {
		t.Errorf("expected customer total 110, got %d", quote.CustomerTotal)
	}

	// Wrapped window still matches the early-morning side.
	earlyMorning := time.Date(2026, 1, 16, 3, 0, 0, 0, time.UTC)
	if !NightSurchargeActive(cfg, earlyMorning) {
		t.Error("expected night surcharge active at 03:00 for a 22-5 window")
	}
	if NightSurchargeActive(cfg, daytime) {
		t.Error("expected night surcharge inactive at 11:30")
	}
}

func TestQuote_Errors(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	if _, err := Quote(nil, domain.VehicleClassAuto, 5, 0, daytime, false); !errors.Is(err, ErrNoActiveFareConfig) {
		t.Errorf("expected ErrNoActiveFareConfig for nil config, got %v", err)
	}
	if _, err := Quote(cfg, "rickshaw", 5, 0, daytime, false); !errors.Is(err, ErrUnknownVehicleClass) {
		t.Errorf("expected ErrUnknownVehicleClass, got %v", err)
	}
	if _, err := Quote(cfg, domain.VehicleClassAuto, -1, 0, daytime, false); !errors.Is(err, ErrNegativeDistance) {
		t.Errorf("expected ErrNegativeDistance, got %v", err)
	}
	if _, err := Quote(cfg, domain.VehicleClassAuto, 5, -3, daytime, false); !errors.Is(err, ErrNegativeWaitingTime) {
		t.Errorf("expected ErrNegativeWaitingTime, got %v", err)
	}
}

func TestSurgeMultiplier_FirstMatchWins(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.SurgeWindows = []domain.SurgeWindow{
		{Name: "morning-peak", StartHour: 8, EndHour: 11, Multiplier: 1.5},
		{Name: "overlap", StartHour: 9, EndHour: 12, Multiplier: 2.0},
		{Name: "late-night", StartHour: 22, EndHour: 5, Multiplier: 1.25},
	}

	cases := []struct {
		hour int
		want float64
	}{
		{8, 1.5},
		{10, 1.5}, // Both windows match; declaration order wins
		{11, 2.0},
		{14, 1.0},
		{23, 1.25}, // Wrapped window, evening side
		{2, 1.25},  // Wrapped window, morning side
		{5, 1.0},   // End hour is exclusive
	}

	for _, tc := range cases {
		now := time.Date(2026, 1, 15, tc.hour, 0, 0, 0, time.UTC)
		if got := SurgeMultiplier(cfg, now); got != tc.want {
			t.Errorf("hour %d: expected multiplier %.2f, got %.2f", tc.hour, tc.want, got)
		}
	}
}

func TestDemandMultiplier(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.DemandBands = []domain.DemandBand{
		{MinRatio: 1.2, MaxRatio: 1.5, HasMax: true, Multiplier: 1.25},
		{MinRatio: 1.5, MaxRatio: 2.0, HasMax: true, Multiplier: 1.5},
		{MinRatio: 2.0, Multiplier: 2.0}, // Open-ended
	}

	cases := []struct {
		name     string
		online   int
		requests int
		want     float64
	}{
		{"idle booth", 0, 0, 1.0},
		{"balanced", 10, 10, 1.0},
		{"mild pressure", 10, 13, 1.25},
		{"band boundary", 10, 15, 1.5},
		{"heavy pressure", 10, 25, 2.0},
		{"no drivers with demand", 0, 3, 2.0},
	}

	for _, tc := range cases {
		if got := DemandMultiplier(cfg, tc.online, tc.requests); got != tc.want {
			t.Errorf("%s: expected multiplier %.2f, got %.2f", tc.name, tc.want, got)
		}
	}

	// No bands configured means no demand pricing.
	if got := DemandMultiplier(testConfig(), 1, 100); got != 1.0 {
		t.Errorf("expected 1.0 with no bands, got %.2f", got)
	}
}

func TestDistance(t *testing.T) {
	t.Parallel()

	// Rajiv Chowk to Hauz Khas, roughly 10km.
	got := Distance(28.6328, 77.2197, 28.5494, 77.2001)
	if math.Abs(got-9.5) > 1.0 {
		t.Errorf("expected roughly 9.5km, got %.2f", got)
	}

	if d := Distance(28.6328, 77.2197, 28.6328, 77.2197); d != 0 {
		t.Errorf("expected zero distance for identical points, got %f", d)
	}
}
