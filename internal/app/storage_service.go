package app

import (
	"context"

	"calendrette/internal/domain/auth"
	"calendrette/internal/domain/period"

	"github.com/sirupsen/logrus"
)

// LocalStore is the local backend plus whole-collection access used by
// snapshots.
type LocalStore interface {
	period.Backend
	Records() ([]period.Record, error)
	ReplaceAll(records []period.Record) error
}

// PreferenceStore persists the active backend kind.
type PreferenceStore interface {
	Get() (period.Kind, error)
	Set(kind period.Kind) error
}

// StorageService routes record operations to the backend selected by the
// stored preference. The preference is read on every call.
type StorageService struct {
	prefs  PreferenceStore
	local  LocalStore
	remote period.Backend
	auth   auth.Source
	logger *logrus.Entry
}

// NewStorageService wires the facade. remote may be nil when no remote
// database is configured.
func NewStorageService(prefs PreferenceStore, local LocalStore, remote period.Backend, source auth.Source, logger *logrus.Entry) *StorageService {
	return &StorageService{
		prefs:  prefs,
		local:  local,
		remote: remote,
		auth:   source,
		logger: logger,
	}
}

func (s *StorageService) Preference() (period.Kind, error) {
	return s.prefs.Get()
}

// SetPreference writes the flag without moving data.
func (s *StorageService) SetPreference(kind period.Kind) error {
	if kind == period.KindRemote && s.remote == nil {
		return period.ErrRemoteUnavailable
	}
	return s.prefs.Set(kind)
}

// RemoteConfigured reports whether a remote backend is wired.
func (s *StorageService) RemoteConfigured() bool {
	return s.remote != nil
}

func (s *StorageService) backend(kind period.Kind) (period.Backend, error) {
	if kind == period.KindRemote {
		if s.remote == nil {
			return nil, period.ErrRemoteUnavailable
		}
		return s.remote, nil
	}
	return s.local, nil
}

func (s *StorageService) active() (period.Backend, error) {
	kind, err := s.prefs.Get()
	if err != nil {
		return nil, err
	}
	return s.backend(kind)
}

// Save validates d and stores it in the active backend. An empty ID with a
// nil error means the start date is already recorded.
func (s *StorageService) Save(ctx context.Context, d period.Draft) (string, error) {
	if err := period.Validate(d); err != nil {
		return "", err
	}
	b, err := s.active()
	if err != nil {
		return "", err
	}
	id, err := b.Save(ctx, d.Record())
	if err != nil {
		return "", err
	}
	if id == "" {
		s.logger.Infof("Period starting %s already recorded in %s storage", d.StartDate, b.Kind())
	} else {
		s.logger.Debugf("Saved period %s to %s storage", id, b.Kind())
	}
	return id, nil
}

// Load returns the active backend's records, newest first.
func (s *StorageService) Load(ctx context.Context) ([]period.Record, error) {
	b, err := s.active()
	if err != nil {
		return nil, err
	}
	return b.Load(ctx)
}

// LoadDerived loads and derives every record. Records with malformed dates
// come back with Valid set to false.
func (s *StorageService) LoadDerived(ctx context.Context) ([]period.Derived, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return period.DeriveAll(records), nil
}

func (s *StorageService) Delete(ctx context.Context, id string) error {
	b, err := s.active()
	if err != nil {
		return err
	}
	if err := b.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debugf("Deleted period %s from %s storage", id, b.Kind())
	return nil
}

// Switch changes the active backend without transferring records.
func (s *StorageService) Switch(to period.Kind) error {
	if to == period.KindRemote {
		if s.remote == nil {
			return period.ErrRemoteUnavailable
		}
		if _, ok := s.auth.Current().Principal(); !ok {
			return period.ErrAuthenticationRequired
		}
	}
	if err := s.prefs.Set(to); err != nil {
		return err
	}
	s.logger.Infof("Switched to %s storage without transferring records", to)
	return nil
}
