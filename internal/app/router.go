package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/handler"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler   *handler.RideHandler
	FareHandler   *handler.FareHandler
	DriverHandler *handler.DriverHandler
	UserHandler   *handler.UserHandler
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// User routes.
		users := v1.Group("/users")
		{
			users.POST("/register", deps.UserHandler.Register)
			users.GET("", deps.UserHandler.GetAll)
		}

		// Fare routes.
		fares := v1.Group("/fares")
		{
			fares.POST("/estimate", deps.FareHandler.Estimate)
			fares.GET("/config", deps.FareHandler.GetConfig)
			fares.POST("/config", deps.FareHandler.PublishConfig)
		}

		// Ride routes.
		rides := v1.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("", deps.RideHandler.GetAll)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/assign", deps.RideHandler.AssignDriver)
			rides.POST("/:id/start", deps.RideHandler.StartRide)
			rides.POST("/:id/end", deps.RideHandler.EndRide)
			rides.POST("/:id/settle", deps.RideHandler.SettleRide)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
			rides.GET("/:id/history", deps.RideHandler.GetHistory)
		}

		// Booking number lookup for riders holding a GT- reference.
		v1.GET("/bookings/:number", deps.RideHandler.GetByBookingNumber)

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.POST("/:id/location", deps.DriverHandler.UpdateLocation)
			drivers.POST("/:id/status", deps.DriverHandler.UpdateStatus)
			drivers.POST("/:id/booth", deps.DriverHandler.JoinBooth)
		}

		// Booth queue supply, per vehicle class.
		v1.GET("/booths/:name/drivers", deps.DriverHandler.BoothSupply)
	}

	return router
}
