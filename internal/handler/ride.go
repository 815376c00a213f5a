package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	lifecycle *service.LifecycleService
	rideRepo  repository.RideRepository
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(lifecycle *service.LifecycleService, rideRepo repository.RideRepository) *RideHandler {
	return &RideHandler{
		lifecycle: lifecycle,
		rideRepo:  rideRepo,
	}
}

// CreateRideRequest is the HTTP request body for booking a ride.
type CreateRideRequest struct {
	RiderID        string  `json:"rider_id"`
	PickupName     string  `json:"pickup_name"`
	PickupLat      float64 `json:"pickup_lat"`
	PickupLng      float64 `json:"pickup_lng"`
	DropAddress    string  `json:"drop_address"`
	DropLat        float64 `json:"drop_lat"`
	DropLng        float64 `json:"drop_lng"`
	VehicleClass   string  `json:"vehicle_class"`
	WaitingMinutes float64 `json:"waiting_minutes,omitempty"`
}

// AssignDriverRequest is the HTTP request body for a driver accepting a ride.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id"`
}

// VerifyCodeRequest is the HTTP request body for start/end verification.
type VerifyCodeRequest struct {
	Code                string   `json:"code"`
	CorrectedDistanceKm *float64 `json:"corrected_distance_km,omitempty"` // End only
}

// SettleRideRequest is the HTTP request body for settlement confirmation.
type SettleRideRequest struct {
	PaymentCollected bool `json:"payment_collected"`
}

// CancelRideRequest is the HTTP request body for cancelling a ride.
type CancelRideRequest struct {
	CancelledBy string `json:"cancelled_by,omitempty"` // rider, driver or admin
	Reason      string `json:"reason,omitempty"`
}

// FareBreakdown is the wire form of a fare quote.
type FareBreakdown struct {
	VehicleClass   string  `json:"vehicle_class"`
	DistanceKm     float64 `json:"distance_km"`
	BaseFare       int64   `json:"base_fare"`
	DistanceFare   int64   `json:"distance_fare"`
	WaitingCharge  int64   `json:"waiting_charge"`
	SurgeFactor    float64 `json:"surge_factor"`
	DriverEarnings int64   `json:"driver_earnings"`
	Commission     int64   `json:"commission"`
	Tax            int64   `json:"tax"`
	NightSurcharge int64   `json:"night_surcharge"`
	CustomerTotal  int64   `json:"customer_total"`
	ConfigVersion  int64   `json:"config_version"`
}

func toFareBreakdown(q domain.FareQuote) FareBreakdown {
	return FareBreakdown{
		VehicleClass:   string(q.VehicleClass),
		DistanceKm:     q.DistanceKm,
		BaseFare:       q.BaseFare,
		DistanceFare:   q.DistanceFare,
		WaitingCharge:  q.WaitingCharge,
		SurgeFactor:    q.SurgeFactor,
		DriverEarnings: q.DriverEarnings,
		Commission:     q.Commission,
		Tax:            q.Tax,
		NightSurcharge: q.NightSurcharge,
		CustomerTotal:  q.CustomerTotal,
		ConfigVersion:  q.ConfigVersion,
	}
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID            string         `json:"id"`
	BookingNumber string         `json:"booking_number"`
	RiderID       string         `json:"rider_id"`
	DriverID      string         `json:"driver_id,omitempty"`
	PickupName    string         `json:"pickup_name"`
	DropAddress   string         `json:"drop_address"`
	VehicleClass  string         `json:"vehicle_class"`
	DistanceKm    float64        `json:"distance_km"`
	Status        string         `json:"status"`
	Quote         FareBreakdown  `json:"quote"`
	FinalFare     *FareBreakdown `json:"final_fare,omitempty"`
	StartCode     string         `json:"start_code,omitempty"` // Only on create/assign responses to the rider
	CancelledBy   string         `json:"cancelled_by,omitempty"`
	CancelReason  string         `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

func toRideResponse(ride *domain.Ride, includeCodes bool) RideResponse {
	resp := RideResponse{
		ID:            ride.ID,
		BookingNumber: ride.BookingNumber,
		RiderID:       ride.RiderID,
		DriverID:      ride.DriverID,
		PickupName:    ride.Pickup.Name,
		DropAddress:   ride.Drop.Address,
		VehicleClass:  string(ride.VehicleClass),
		DistanceKm:    ride.DistanceKm,
		Status:        string(ride.Status),
		Quote:         toFareBreakdown(ride.Quote),
		CancelledBy:   ride.CancelledBy,
		CancelReason:  ride.CancelReason,
		CreatedAt:     ride.CreatedAt,
	}
	if ride.FinalFare != nil {
		fare := toFareBreakdown(*ride.FinalFare)
		resp.FinalFare = &fare
	}
	if includeCodes {
		resp.StartCode = ride.StartCode
	}
	return resp
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.lifecycle.CreateRide(c.Request.Context(), service.CreateRideRequest{
		RiderID: req.RiderID,
		Pickup: domain.Booth{
			Name: req.PickupName,
			Lat:  req.PickupLat,
			Lng:  req.PickupLng,
		},
		Drop: domain.DropLocation{
			Address: req.DropAddress,
			Lat:     req.DropLat,
			Lng:     req.DropLng,
		},
		VehicleClass:   domain.VehicleClass(req.VehicleClass),
		WaitingMinutes: req.WaitingMinutes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride, false))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.lifecycle.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, false))
}

// GetByBookingNumber handles GET /v1/bookings/:number
func (h *RideHandler) GetByBookingNumber(c *gin.Context) {
	ride, err := h.rideRepo.GetByBookingNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, false))
}

// GetAll handles GET /v1/rides
func (h *RideHandler) GetAll(c *gin.Context) {
	rides, err := h.rideRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]RideResponse, 0, len(rides))
	for _, ride := range rides {
		resp = append(resp, toRideResponse(ride, false))
	}
	respondJSON(c, http.StatusOK, resp)
}

// AssignDriver handles POST /v1/rides/:id/assign
func (h *RideHandler) AssignDriver(c *gin.Context) {
	var req AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.lifecycle.AssignDriver(c.Request.Context(), c.Param("id"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	// The start code is returned here so the rider app can display it to the
	// driver at pickup.
	respondJSON(c, http.StatusOK, toRideResponse(ride, true))
}

// StartRide handles POST /v1/rides/:id/start
func (h *RideHandler) StartRide(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.lifecycle.VerifyStart(c.Request.Context(), c.Param("id"), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, false))
}

// EndRide handles POST /v1/rides/:id/end
func (h *RideHandler) EndRide(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.lifecycle.VerifyEnd(c.Request.Context(), c.Param("id"), req.Code, req.CorrectedDistanceKm)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, false))
}

// SettleRide handles POST /v1/rides/:id/settle
func (h *RideHandler) SettleRide(c *gin.Context) {
	var req SettleRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.lifecycle.ConfirmSettlement(c.Request.Context(), c.Param("id"), req.PaymentCollected)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, false))
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	var req CancelRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.lifecycle.Cancel(c.Request.Context(), c.Param("id"), req.CancelledBy, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, false))
}

// GetHistory handles GET /v1/rides/:id/history
func (h *RideHandler) GetHistory(c *gin.Context) {
	archive, err := h.lifecycle.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, archive)
}
