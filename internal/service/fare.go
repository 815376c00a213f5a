package service

import (
	"math"
	"time"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
)

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometres between two
// points specified in decimal degrees (haversine).
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// hourInWindow reports whether hour falls in [start, end), supporting
// windows that wrap past midnight (e.g. 22 -> 5).
func hourInWindow(hour, start, end int) bool {
	if start <= end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}

// SurgeMultiplier returns the multiplier of the first surge window containing
// now's hour of day, or 1.0 when no window matches. Windows are assumed
// non-overlapping; if they do overlap, declaration order wins.
func SurgeMultiplier(cfg *domain.FareConfiguration, now time.Time) float64 {
	hour := now.Hour()
	for _, w := range cfg.SurgeWindows {
		if hourInWindow(hour, w.StartHour, w.EndHour) {
			return w.Multiplier
		}
	}
	return 1.0
}

// NightSurchargeActive reports whether now falls inside the configured
// overnight window.
func NightSurchargeActive(cfg *domain.FareConfiguration, now time.Time) bool {
	return hourInWindow(now.Hour(), cfg.Night.StartHour, cfg.Night.EndHour)
}

// DemandMultiplier returns the multiplier of the first demand band containing
// the requests-per-driver ratio, or 1.0 when no band matches. With no online
// drivers and pending requests the ratio is treated as unbounded, so it lands
// in the first open-ended band.
func DemandMultiplier(cfg *domain.FareConfiguration, onlineDrivers, activeRequests int) float64 {
	var ratio float64
	switch {
	case onlineDrivers == 0 && activeRequests == 0:
		ratio = 0
	case onlineDrivers == 0:
		ratio = math.Inf(1)
	default:
		ratio = float64(activeRequests) / float64(onlineDrivers)
	}

	for _, b := range cfg.DemandBands {
		if ratio < b.MinRatio {
			continue
		}
		if b.HasMax && ratio >= b.MaxRatio {
			continue
		}
		return b.Multiplier
	}
	return 1.0
}

// roundRupees rounds a fractional amount to the nearest whole rupee.
func roundRupees(amount float64) int64 {
	return int64(math.Round(amount))
}

// Quote computes a deterministic fare breakdown. The driver's payout
// (DriverEarnings) is fixed before surge is applied and is never re-derived
// from the surged total; commission is always computed on the un-surged base.
func Quote(cfg *domain.FareConfiguration, class domain.VehicleClass, distanceKm, waitingMinutes float64, now time.Time, applySurge bool) (*domain.FareQuote, error) {
	if cfg == nil {
		return nil, ErrNoActiveFareConfig
	}
	if distanceKm < 0 {
		return nil, ErrNegativeDistance
	}
	if waitingMinutes < 0 {
		return nil, ErrNegativeWaitingTime
	}

	rates, ok := cfg.RatesFor(class)
	if !ok {
		return nil, ErrUnknownVehicleClass
	}

	baseFare := rates.BaseFare

	var distanceFare int64
	if distanceKm > rates.IncludedKm {
		distanceFare = roundRupees((distanceKm - rates.IncludedKm) * float64(rates.PerKmRate))
	}

	waitingCharge := roundRupees(waitingMinutes * float64(rates.WaitingPerMinute))

	driverEarnings := baseFare + distanceFare + waitingCharge
	if driverEarnings < rates.MinimumFare {
		driverEarnings = rates.MinimumFare
	}

	commission := roundRupees(float64(driverEarnings) * cfg.CommissionPercent / 100)

	surgeFactor := 1.0
	surgedAmount := driverEarnings
	if applySurge {
		surgeFactor = SurgeMultiplier(cfg, now)
		surgedAmount = roundRupees(float64(driverEarnings) * surgeFactor)
	}

	tax := roundRupees(float64(surgedAmount+commission) * cfg.TaxPercent / 100)

	var nightSurcharge int64
	if NightSurchargeActive(cfg, now) {
		nightSurcharge = roundRupees(float64(surgedAmount+commission+tax) * cfg.Night.Percent / 100)
	}

	return &domain.FareQuote{
		VehicleClass:   class,
		DistanceKm:     distanceKm,
		WaitingMinutes: waitingMinutes,
		BaseFare:       baseFare,
		DistanceFare:   distanceFare,
		WaitingCharge:  waitingCharge,
		SurgeFactor:    surgeFactor,
		SurgedAmount:   surgedAmount,
		DriverEarnings: driverEarnings,
		Commission:     commission,
		Tax:            tax,
		NightSurcharge: nightSurcharge,
		CustomerTotal:  surgedAmount + commission + tax + nightSurcharge,
		ConfigVersion:  cfg.Version,
		QuotedAt:       now,
	}, nil
}
