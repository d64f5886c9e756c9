package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"calendrette/internal/domain/period"
	"calendrette/internal/infra/kvstore"

	"github.com/google/uuid"
)

// PeriodsKey is the key holding the JSON array of local records.
const PeriodsKey = "menstrualPeriods"

// LocalBackend stores the whole collection as one JSON array under PeriodsKey.
// Every write rewrites the full array.
type LocalBackend struct {
	store kvstore.Store
	now   func() time.Time
	newID func() string
}

func NewLocalBackend(store kvstore.Store) *LocalBackend {
	return &LocalBackend{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock replaces the timestamp source.
func (b *LocalBackend) WithClock(now func() time.Time) *LocalBackend {
	b.now = now
	return b
}

func (b *LocalBackend) Kind() period.Kind {
	return period.KindLocal
}

// Save appends r under a new ID. An empty ID with a nil error means a record
// with the same start date already exists. The ID of r is ignored.
func (b *LocalBackend) Save(_ context.Context, r period.Record) (string, error) {
	records, err := b.Records()
	if err != nil {
		return "", err
	}
	if period.HasStartDate(records, r.StartDate) {
		return "", nil
	}

	r.ID = b.newID()
	if r.CreatedAt == "" {
		r.CreatedAt = period.FormatTimestamp(b.now())
	}
	records = append(records, r)
	if err := b.ReplaceAll(records); err != nil {
		return "", err
	}
	return r.ID, nil
}

func (b *LocalBackend) Load(_ context.Context) ([]period.Record, error) {
	records, err := b.Records()
	if err != nil {
		return nil, err
	}
	period.SortNewestFirst(records)
	return records, nil
}

func (b *LocalBackend) Delete(_ context.Context, id string) error {
	records, err := b.Records()
	if err != nil {
		return err
	}
	return b.ReplaceAll(period.Filter(records, id))
}

// Records returns the stored array in insertion order.
func (b *LocalBackend) Records() ([]period.Record, error) {
	raw, ok, err := b.store.Get(PeriodsKey)
	if err != nil {
		return nil, err
	}
	records := []period.Record{}
	if !ok || raw == "" {
		return records, nil
	}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: local collection is corrupt: %v", period.ErrValidation, err)
	}
	return records, nil
}

// ReplaceAll overwrites the collection. Records without an ID get one.
func (b *LocalBackend) ReplaceAll(records []period.Record) error {
	if records == nil {
		records = []period.Record{}
	}
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = b.newID()
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("error encoding local collection: %w", err)
	}
	return b.store.Set(PeriodsKey, string(data))
}
