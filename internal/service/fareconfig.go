package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/repository"
)

// ConfigCache caches the active fare configuration between reads.
type ConfigCache interface {
	// GetFareConfig returns the cached configuration, or (nil, nil) on a miss.
	GetFareConfig(ctx context.Context) (*domain.FareConfiguration, error)
	SetFareConfig(ctx context.Context, cfg *domain.FareConfiguration, ttl time.Duration) error
	InvalidateFareConfig(ctx context.Context) error
}

// FareConfigService is the config provider: it serves the single active fare
// configuration, caching it with an explicit TTL. The engine itself stays
// stateless; all caching lives here.
type FareConfigService struct {
	repo     repository.FareConfigRepository
	cache    ConfigCache
	cacheTTL time.Duration
}

// NewFareConfigService creates a new FareConfigService. cache may be nil, in
// which case every read hits the repository.
func NewFareConfigService(repo repository.FareConfigRepository, cache ConfigCache, cacheTTL time.Duration) *FareConfigService {
	return &FareConfigService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Active returns the active fare configuration.
func (s *FareConfigService) Active(ctx context.Context) (*domain.FareConfiguration, error) {
	if s.cache != nil {
		cfg, err := s.cache.GetFareConfig(ctx)
		if err != nil {
			// Cache trouble degrades to a repository read.
			log.Printf("fare config cache read failed: %v", err)
		} else if cfg != nil {
			return cfg, nil
		}
	}

	cfg, err := s.repo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveFareConfig
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetFareConfig(ctx, cfg, s.cacheTTL); err != nil {
			log.Printf("fare config cache write failed: %v", err)
		}
	}

	return cfg, nil
}

// ByVersion returns a historical configuration.
func (s *FareConfigService) ByVersion(ctx context.Context, version int64) (*domain.FareConfiguration, error) {
	return s.repo.GetByVersion(ctx, version)
}

// Publish validates cfg, stores it as the next active version, and
// invalidates the cache so the new version takes effect on the next read.
func (s *FareConfigService) Publish(ctx context.Context, cfg *domain.FareConfiguration) (*domain.FareConfiguration, error) {
	if err := validateFareConfig(cfg); err != nil {
		return nil, err
	}

	published, err := s.repo.Publish(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateFareConfig(ctx); err != nil {
			log.Printf("fare config cache invalidation failed: %v", err)
		}
	}

	return published, nil
}

func validateFareConfig(cfg *domain.FareConfiguration) error {
	if cfg == nil || len(cfg.Rates) == 0 {
		return fmt.Errorf("%w: no vehicle rates", ErrInvalidFareConfig)
	}
	for class, rates := range cfg.Rates {
		if rates.BaseFare < 0 || rates.PerKmRate < 0 || rates.MinimumFare < 0 || rates.WaitingPerMinute < 0 || rates.IncludedKm < 0 {
			return fmt.Errorf("%w: negative rate for %s", ErrInvalidFareConfig, class)
		}
	}
	for _, w := range cfg.SurgeWindows {
		if w.Multiplier < 1.0 {
			return fmt.Errorf("%w: surge window %q multiplier below 1.0", ErrInvalidFareConfig, w.Name)
		}
		if !validHour(w.StartHour) || !validHour(w.EndHour) {
			return fmt.Errorf("%w: surge window %q hours out of range", ErrInvalidFareConfig, w.Name)
		}
	}
	for i, b := range cfg.DemandBands {
		if b.Multiplier < 1.0 {
			return fmt.Errorf("%w: demand band %d multiplier below 1.0", ErrInvalidFareConfig, i)
		}
		if b.HasMax && b.MaxRatio <= b.MinRatio {
			return fmt.Errorf("%w: demand band %d has empty ratio range", ErrInvalidFareConfig, i)
		}
	}
	if cfg.TaxPercent < 0 || cfg.CommissionPercent < 0 || cfg.Night.Percent < 0 {
		return fmt.Errorf("%w: negative percentage", ErrInvalidFareConfig)
	}
	if !validHour(cfg.Night.StartHour) || !validHour(cfg.Night.EndHour) {
		return fmt.Errorf("%w: night window hours out of range", ErrInvalidFareConfig)
	}
	return nil
}

func validHour(h int) bool {
	return h >= 0 && h <= 24
}
