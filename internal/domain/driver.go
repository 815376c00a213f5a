package domain

// DriverStatus represents the current status of a driver.
type DriverStatus string

const (
	DriverStatusOnline  DriverStatus = "online"
	DriverStatusOffline DriverStatus = "offline"
	DriverStatusOnRide  DriverStatus = "on_ride"
)

// Driver represents a driver in the system.
type Driver struct {
	ID           string
	Name         string
	Phone        string
	VehicleClass VehicleClass
	VehicleNo    string
	Status       DriverStatus
	Booth        string // Booth the driver is currently queued at, if any
}
