package period

import (
	"context"
	"fmt"
	"strings"
)

// Kind identifies a storage backend. The remote value keeps the "firebase"
// literal so preferences written by earlier clients stay readable.
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "firebase"
)

// ParseKind accepts "local", "firebase" and "remote".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindLocal):
		return KindLocal, nil
	case string(KindRemote), "remote":
		return KindRemote, nil
	default:
		return "", fmt.Errorf("unknown storage type %q (expected local or remote)", s)
	}
}

// Other returns the opposite backend kind.
func (k Kind) Other() Kind {
	if k == KindLocal {
		return KindRemote
	}
	return KindLocal
}

// Backend persists records. Start dates are unique per backend: Save returns
// an empty ID and no error when the start date is already stored.
type Backend interface {
	Kind() Kind
	Save(ctx context.Context, r Record) (string, error)
	// Load returns records newest first by CreatedAt.
	Load(ctx context.Context) ([]Record, error)
	// Delete is a no-op for unknown IDs.
	Delete(ctx context.Context, id string) error
}

// Collection is a remote per-owner record collection.
type Collection interface {
	// List returns the owner's records ordered by created_at descending.
	List(ctx context.Context, ownerID string) ([]Record, error)
	// Append stores r and returns the generated ID.
	Append(ctx context.Context, ownerID string, r Record) (string, error)
	Delete(ctx context.Context, ownerID string, id string) error
}
