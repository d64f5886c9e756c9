package app

import (
	"encoding/json"
	"fmt"
	"time"

	"calendrette/internal/domain/period"
)

// Snapshot is an exported copy of the local collection.
type Snapshot struct {
	Filename string
	Data     []byte
}

// ExportSnapshot serialises the local collection as indented JSON.
func (s *StorageService) ExportSnapshot(now time.Time) (Snapshot, error) {
	records, err := s.local.Records()
	if err != nil {
		return Snapshot{}, err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return Snapshot{}, fmt.Errorf("error encoding snapshot: %w", err)
	}
	return Snapshot{
		Filename: fmt.Sprintf("d-day_data_local_%s.json", now.Format(period.DateLayout)),
		Data:     data,
	}, nil
}

// ImportSnapshot replaces the local collection with the valid records in
// data and returns how many were kept. Entries that are not valid records
// and repeated start dates are dropped.
func (s *StorageService) ImportSnapshot(data []byte) (int, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("%w: snapshot is not a JSON array: %v", period.ErrValidation, err)
	}
	if entries == nil {
		return 0, fmt.Errorf("%w: snapshot is not a JSON array", period.ErrValidation)
	}

	kept := make([]period.Record, 0, len(entries))
	for i, raw := range entries {
		var r period.Record
		if err := json.Unmarshal(raw, &r); err != nil {
			s.logger.Warnf("Skipping snapshot entry %d: %v", i, err)
			continue
		}
		if err := period.ValidateStored(r); err != nil {
			s.logger.Warnf("Skipping snapshot entry %d: %v", i, err)
			continue
		}
		if period.HasStartDate(kept, r.StartDate) {
			s.logger.Warnf("Skipping snapshot entry %d: start date %s repeated", i, r.StartDate)
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return 0, fmt.Errorf("%w: snapshot contains no valid records", period.ErrValidation)
	}

	if err := s.local.ReplaceAll(kept); err != nil {
		return 0, err
	}
	s.logger.Infof("Imported %d of %d snapshot records", len(kept), len(entries))
	return len(kept), nil
}
