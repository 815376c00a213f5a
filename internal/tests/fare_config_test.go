package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rohansaini2102/project-gantavyam-sub004/internal/domain"
	"github.com/rohansaini2102/project-gantavyam-sub004/internal/service"
)

const testCacheTTL = 5 * time.Minute

func TestFareConfig_CacheMissPopulatesCache(t *testing.T) {
	t.Parallel()

	repo := NewMockFareConfigRepository()
	repo.SetActive(activeTestConfig())
	cache := NewMockConfigCache()
	svc := service.NewFareConfigService(repo, cache, testCacheTTL)

	cfg, err := svc.Active(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}

	if repo.GetActiveCallCount != 1 {
		t.Errorf("expected 1 repository read, got %d", repo.GetActiveCallCount)
	}
	if cache.Cached() == nil {
		t.Fatal("expected the miss to populate the cache")
	}
	if cache.LastTTL != testCacheTTL {
		t.Errorf("expected cache TTL %s, got %s", testCacheTTL, cache.LastTTL)
	}
}

func TestFareConfig_CacheHitSkipsRepository(t *testing.T) {
	t.Parallel()

	repo := NewMockFareConfigRepository()
	repo.SetActive(activeTestConfig())
	cache := NewMockConfigCache()
	svc := service.NewFareConfigService(repo, cache, testCacheTTL)
	ctx := context.Background()

	if _, err := svc.Active(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Active(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.GetActiveCallCount != 1 {
		t.Errorf("expected the second read served from cache, repo reads: %d", repo.GetActiveCallCount)
	}
	if cache.GetCallCount != 2 {
		t.Errorf("expected 2 cache reads, got %d", cache.GetCallCount)
	}
}

func TestFareConfig_CacheFailureDegradesToRepository(t *testing.T) {
	t.Parallel()

	repo := NewMockFareConfigRepository()
	repo.SetActive(activeTestConfig())
	cache := NewMockConfigCache()
	cache.GetError = errors.New("redis unavailable")
	svc := service.NewFareConfigService(repo, cache, testCacheTTL)

	cfg, err := svc.Active(context.Background())
	if err != nil {
		t.Fatalf("expected cache trouble to degrade, got %v", err)
	}
	if cfg == nil || cfg.Version != 1 {
		t.Errorf("expected active config from repository, got %+v", cfg)
	}
}

func TestFareConfig_NoActiveConfiguration(t *testing.T) {
	t.Parallel()

	repo := NewMockFareConfigRepository()
	svc := service.NewFareConfigService(repo, nil, 0)

	_, err := svc.Active(context.Background())
	if !errors.Is(err, service.ErrNoActiveFareConfig) {
		t.Fatalf("expected ErrNoActiveFareConfig, got %v", err)
	}
}

func TestFareConfig_PublishInvalidatesCache(t *testing.T) {
	t.Parallel()

	repo := NewMockFareConfigRepository()
	repo.SetActive(activeTestConfig())
	cache := NewMockConfigCache()
	svc := service.NewFareConfigService(repo, cache, testCacheTTL)
	ctx := context.Background()

	if _, err := svc.Active(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Cached() == nil {
		t.Fatal("expected cache populated")
	}

	next := activeTestConfig()
	published, err := svc.Publish(ctx, next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if published.Version != 2 {
		t.Errorf("expected published version 2, got %d", published.Version)
	}
	if cache.InvalidateCallCount != 1 {
		t.Errorf("expected 1 cache invalidation, got %d", cache.InvalidateCallCount)
	}
	if cache.Cached() != nil {
		t.Error("expected cache empty after publish")
	}

	// The next read serves the new version.
	cfg, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Version != 2 {
		t.Errorf("expected version 2 after publish, got %d", cfg.Version)
	}
}

func TestFareConfig_PublishRejectsInvalidConfiguration(t *testing.T) {
	t.Parallel()

	repo := NewMockFareConfigRepository()
	svc := service.NewFareConfigService(repo, nil, 0)
	ctx := context.Background()

	cases := []struct {
		name string
		cfg  *domain.FareConfiguration
	}{
		{"no rates", &domain.FareConfiguration{}},
		{"negative rate", func() *domain.FareConfiguration {
			cfg := activeTestConfig()
			cfg.Rates[domain.VehicleClassAuto] = domain.VehicleRates{BaseFare: -1}
			return cfg
		}()},
		{"surge below one", func() *domain.FareConfiguration {
			cfg := activeTestConfig()
			cfg.SurgeWindows = []domain.SurgeWindow{{Name: "bad", StartHour: 8, EndHour: 10, Multiplier: 0.5}}
			return cfg
		}()},
		{"empty demand band", func() *domain.FareConfiguration {
			cfg := activeTestConfig()
			cfg.DemandBands = []domain.DemandBand{{MinRatio: 2, MaxRatio: 1, HasMax: true, Multiplier: 1.5}}
			return cfg
		}()},
		{"hour out of range", func() *domain.FareConfiguration {
			cfg := activeTestConfig()
			cfg.SurgeWindows = []domain.SurgeWindow{{Name: "bad", StartHour: 8, EndHour: 25, Multiplier: 1.5}}
			return cfg
		}()},
	}

	for _, tc := range cases {
		if _, err := svc.Publish(ctx, tc.cfg); !errors.Is(err, service.ErrInvalidFareConfig) {
			t.Errorf("%s: expected ErrInvalidFareConfig, got %v", tc.name, err)
		}
	}
	if repo.PublishCallCount != 0 {
		t.Errorf("expected no publish calls for invalid configs, got %d", repo.PublishCallCount)
	}
}
