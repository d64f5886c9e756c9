package storage

import (
	"fmt"

	"calendrette/internal/domain/period"
	"calendrette/internal/infra/kvstore"
)

// PreferenceKey is the key holding the active backend kind.
const PreferenceKey = "storageType"

// PreferenceStore persists the active backend kind. When nothing is stored
// the configured fallback applies.
type PreferenceStore struct {
	store    kvstore.Store
	fallback period.Kind
}

func NewPreferenceStore(store kvstore.Store, fallback period.Kind) *PreferenceStore {
	return &PreferenceStore{store: store, fallback: fallback}
}

func (p *PreferenceStore) Get() (period.Kind, error) {
	raw, ok, err := p.store.Get(PreferenceKey)
	if err != nil {
		return "", fmt.Errorf("error reading storage preference: %w", err)
	}
	if !ok || raw == "" {
		return p.fallback, nil
	}
	kind, err := period.ParseKind(raw)
	if err != nil {
		// Unknown values fall back.
		return p.fallback, nil
	}
	return kind, nil
}

func (p *PreferenceStore) Set(kind period.Kind) error {
	if err := p.store.Set(PreferenceKey, string(kind)); err != nil {
		return fmt.Errorf("error writing storage preference: %w", err)
	}
	return nil
}
