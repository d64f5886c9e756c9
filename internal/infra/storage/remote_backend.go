package storage

import (
	"context"
	"time"

	"calendrette/internal/domain/auth"
	"calendrette/internal/domain/period"
)

// RemoteBackend scopes a remote collection to the authenticated principal.
// There is no cache; every call reaches the collection.
type RemoteBackend struct {
	collection period.Collection
	auth       auth.Source
	now        func() time.Time
}

func NewRemoteBackend(collection period.Collection, source auth.Source) *RemoteBackend {
	return &RemoteBackend{collection: collection, auth: source, now: time.Now}
}

// WithClock replaces the timestamp source.
func (b *RemoteBackend) WithClock(now func() time.Time) *RemoteBackend {
	b.now = now
	return b
}

func (b *RemoteBackend) Kind() period.Kind {
	return period.KindRemote
}

// Save lists the principal's collection to check the start date, then
// appends. An empty ID with a nil error means the start date already exists.
func (b *RemoteBackend) Save(ctx context.Context, r period.Record) (string, error) {
	owner, ok := b.auth.Current().Principal()
	if !ok {
		return "", period.ErrAuthenticationRequired
	}

	existing, err := b.collection.List(ctx, owner)
	if err != nil {
		return "", err
	}
	if period.HasStartDate(existing, r.StartDate) {
		return "", nil
	}

	r.ID = ""
	if r.CreatedAt == "" {
		r.CreatedAt = period.FormatTimestamp(b.now())
	}
	return b.collection.Append(ctx, owner, r)
}

// Load returns an empty slice when no principal is authenticated.
func (b *RemoteBackend) Load(ctx context.Context) ([]period.Record, error) {
	owner, ok := b.auth.Current().Principal()
	if !ok {
		return []period.Record{}, nil
	}
	records, err := b.collection.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []period.Record{}
	}
	return records, nil
}

func (b *RemoteBackend) Delete(ctx context.Context, id string) error {
	owner, ok := b.auth.Current().Principal()
	if !ok {
		return period.ErrAuthenticationRequired
	}
	return b.collection.Delete(ctx, owner, id)
}
