package app

import (
	"context"
	"fmt"
	"strings"

	"calendrette/internal/domain/period"
)

// MigrationPolicy decides what happens to records already in the destination.
type MigrationPolicy int

const (
	// PolicyMerge keeps destination records and adds source records whose
	// start date is not there yet.
	PolicyMerge MigrationPolicy = iota
	// PolicyReplace deletes every destination record before copying.
	PolicyReplace
)

func (p MigrationPolicy) String() string {
	if p == PolicyReplace {
		return "replace"
	}
	return "merge"
}

// ParseMigrationPolicy accepts "merge" and "replace".
func ParseMigrationPolicy(s string) (MigrationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "merge":
		return PolicyMerge, nil
	case "replace":
		return PolicyReplace, nil
	default:
		return 0, fmt.Errorf("unknown transfer policy %q (expected merge or replace)", s)
	}
}

// MigrationResult counts what a migration did, also when it stopped early.
type MigrationResult struct {
	Migrated int
	Skipped  int
	Removed  int
}

// Migrate copies records from the other backend into to and makes to the
// active backend. The direction comes from to alone, so records can still be
// transferred after a Switch. On failure the counts so far are returned with the
// backend error; earlier writes stay and the preference is not changed.
func (s *StorageService) Migrate(ctx context.Context, to period.Kind, policy MigrationPolicy) (MigrationResult, error) {
	var result MigrationResult

	if s.remote == nil {
		return result, period.ErrRemoteUnavailable
	}
	if _, ok := s.auth.Current().Principal(); !ok {
		return result, period.ErrAuthenticationRequired
	}

	src, err := s.backend(to.Other())
	if err != nil {
		return result, err
	}
	dst, err := s.backend(to)
	if err != nil {
		return result, err
	}

	records, err := src.Load(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load %s records: %w", src.Kind(), err)
	}

	if policy == PolicyReplace {
		existing, err := dst.Load(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to load %s records: %w", dst.Kind(), err)
		}
		for _, r := range existing {
			if err := dst.Delete(ctx, r.ID); err != nil {
				s.logger.Errorf("Migration to %s stopped while clearing record %s: %v", to, r.ID, err)
				return result, err
			}
			result.Removed++
		}
	}

	// Oldest first so the destination keeps the original insertion order.
	for i := len(records) - 1; i >= 0; i-- {
		id, err := dst.Save(ctx, records[i])
		if err != nil {
			s.logger.Errorf("Migration to %s stopped after %d records: %v", to, result.Migrated, err)
			return result, err
		}
		if id == "" {
			result.Skipped++
			continue
		}
		result.Migrated++
	}

	if err := s.prefs.Set(to); err != nil {
		return result, err
	}
	s.logger.Infof("Migrated to %s storage (%s): %d copied, %d skipped, %d removed",
		to, policy, result.Migrated, result.Skipped, result.Removed)
	return result, nil
}
