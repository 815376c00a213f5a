package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/service"
)

// FareHandler handles HTTP requests for fare estimates and configuration.
type FareHandler struct {
	configs *service.FareConfigService
	demand  *service.DemandService
}

// NewFareHandler creates a new FareHandler.
func NewFareHandler(configs *service.FareConfigService, demand *service.DemandService) *FareHandler {
	return &FareHandler{
		configs: configs,
		demand:  demand,
	}
}

// EstimateRequest is the HTTP request body for a fare estimate.
type EstimateRequest struct {
	PickupName     string  `json:"pickup_name"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
	DropLat        float64 `json:"drop_lat"`
	DropLng        float64 `json:"drop_lng"`
	VehicleClass   string  `json:"vehicle_class,omitempty"` // Empty means all classes
	WaitingMinutes float64 `json:"waiting_minutes,omitempty"`
}

// EstimateEntry is one per-class estimate line.
type EstimateEntry struct {
	FareBreakdown
	DemandMultiplier float64 `json:"demand_multiplier"`
}

// EstimateResponse is the HTTP response for a fare estimate.
type EstimateResponse struct {
	DistanceKm float64         `json:"distance_km"`
	Estimates  []EstimateEntry `json:"estimates"`
}

// Estimate handles POST /v1/fares/estimate. When no vehicle class is given
// the response carries one estimate per configured class, as the booking
// panel shows.
func (h *FareHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	cfg, err := h.configs.Active(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	distanceKm := service.Distance(req.PickupLat, req.PickupLng, req.DropLat, req.DropLng)
	booth := domain.Booth{Name: req.PickupName, Lat: req.PickupLat, Lng: req.PickupLng}
	now := time.Now()

	classes := make([]domain.VehicleClass, 0, len(cfg.Rates))
	if req.VehicleClass != "" {
		classes = append(classes, domain.VehicleClass(req.VehicleClass))
	} else {
		for class := range cfg.Rates {
			classes = append(classes, class)
		}
	}

	estimates := make([]EstimateEntry, 0, len(classes))
	for _, class := range classes {
		quote, err := service.Quote(cfg, class, distanceKm, req.WaitingMinutes, now, true)
		if err != nil {
			respondError(c, err)
			return
		}

		entry := EstimateEntry{FareBreakdown: toFareBreakdown(*quote), DemandMultiplier: 1.0}
		if h.demand != nil {
			entry.DemandMultiplier = h.demand.Multiplier(ctx, cfg, class, booth)
		}
		estimates = append(estimates, entry)
	}

	respondJSON(c, http.StatusOK, EstimateResponse{
		DistanceKm: distanceKm,
		Estimates:  estimates,
	})
}

// FareConfigRequest is the HTTP request body for publishing a configuration.
type FareConfigRequest struct {
	Rates             map[string]domain.VehicleRates `json:"rates"`
	SurgeWindows      []domain.SurgeWindow           `json:"surge_windows,omitempty"`
	DemandBands       []domain.DemandBand            `json:"demand_bands,omitempty"`
	Night             domain.NightWindow             `json:"night"`
	TaxPercent        float64                        `json:"tax_percent"`
	CommissionPercent float64                        `json:"commission_percent"`
}

// GetConfig handles GET /v1/fares/config
func (h *FareHandler) GetConfig(c *gin.Context) {
	cfg, err := h.configs.Active(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, cfg)
}

// PublishConfig handles POST /v1/fares/config
func (h *FareHandler) PublishConfig(c *gin.Context) {
	var req FareConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rates := make(map[domain.VehicleClass]domain.VehicleRates, len(req.Rates))
	for class, r := range req.Rates {
		rates[domain.VehicleClass(class)] = r
	}

	published, err := h.configs.Publish(c.Request.Context(), &domain.FareConfiguration{
		Rates:             rates,
		SurgeWindows:      req.SurgeWindows,
		DemandBands:       req.DemandBands,
		Night:             req.Night,
		TaxPercent:        req.TaxPercent,
		CommissionPercent: req.CommissionPercent,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, published)
}
