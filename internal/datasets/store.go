package datasets

import (
	"context"
	"sync"
)

// Store holds the validated datasets in memory. Each dataset is loaded at
// most once and is read-only afterwards; a load failure is cached and
// surfaced on every access rather than retried.
type Store struct {
	loader *Loader

	adoptionOnce sync.Once
	adoption     []AdoptionRecord
	adoptionMeta Metadata
	adoptionErr  error

	usageOnce sync.Once
	usage     []UsageRecord
	usageMeta Metadata
	usageErr  error

	growthOnce sync.Once
	growth     []GrowthRecord
	growthMeta Metadata
	growthErr  error
}

// NewStore constructs a Store over the given loader.
func NewStore(loader *Loader) *Store {
	return &Store{loader: loader}
}

// Warm eagerly loads all three datasets, returning the first error.
func (s *Store) Warm(ctx context.Context) error {
	if _, _, err := s.Adoption(ctx); err != nil {
		return err
	}
	if _, _, err := s.Usage(ctx); err != nil {
		return err
	}
	if _, _, err := s.Growth(ctx); err != nil {
		return err
	}
	return nil
}

// Adoption returns the GenAI adoption records and dataset metadata.
func (s *Store) Adoption(ctx context.Context) ([]AdoptionRecord, Metadata, error) {
	s.adoptionOnce.Do(func() {
		s.adoption, s.adoptionMeta, s.adoptionErr = s.loader.LoadAdoption(ctx)
	})
	return s.adoption, s.adoptionMeta, s.adoptionErr
}

// Usage returns the AWS service usage records and dataset metadata.
func (s *Store) Usage(ctx context.Context) ([]UsageRecord, Metadata, error) {
	s.usageOnce.Do(func() {
		s.usage, s.usageMeta, s.usageErr = s.loader.LoadUsage(ctx)
	})
	return s.usage, s.usageMeta, s.usageErr
}

// Growth returns the growth prediction records and dataset metadata.
func (s *Store) Growth(ctx context.Context) ([]GrowthRecord, Metadata, error) {
	s.growthOnce.Do(func() {
		s.growth, s.growthMeta, s.growthErr = s.loader.LoadGrowth(ctx)
	})
	return s.growth, s.growthMeta, s.growthErr
}
