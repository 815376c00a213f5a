package repository

import (
	"context"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
)

// FareConfigRepository defines the persistence operations for versioned fare
// configurations. Configurations are immutable once published; Publish
// deactivates the current version and inserts the next one atomically, so
// exactly one configuration is active at any time.
type FareConfigRepository interface {
	// GetActive retrieves the active configuration.
	GetActive(ctx context.Context) (*domain.FareConfiguration, error)

	// GetByVersion retrieves a historical configuration.
	GetByVersion(ctx context.Context, version int64) (*domain.FareConfiguration, error)

	// Publish stores cfg as the next active version and returns it with its
	// assigned version number.
	Publish(ctx context.Context, cfg *domain.FareConfiguration) (*domain.FareConfiguration, error)
}
