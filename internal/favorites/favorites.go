// Package favorites manages the list of saved locations.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chrissnell/myweather/internal/storage"
	"github.com/chrissnell/myweather/internal/types"
	"github.com/chrissnell/myweather/pkg/units"
	"go.uber.org/zap"
)

// StorageKey is the store key holding the serialized list.
const StorageKey = "favorites"

// Entry is one saved location. Temp is always Fahrenheit, rounded, as of
// the lookup that saved it.
type Entry struct {
	Name string   `json:"name"`
	Zip  string   `json:"zip,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lon  *float64 `json:"lon,omitempty"`
	Temp int      `json:"temp"`
}

// Query returns the lookup that refreshes this entry.
func (e Entry) Query() types.LocationQuery {
	if e.Zip != "" {
		return types.LocationQuery{Zip: e.Zip}
	}
	if e.Lat != nil && e.Lon != nil {
		return types.Coordinates(*e.Lat, *e.Lon)
	}
	return types.LocationQuery{}
}

// EntryFromObservation builds the entry saved for obs. query is the lookup
// that produced it so the entry can be refreshed the same way.
func EntryFromObservation(obs *types.Observation, query types.LocationQuery) Entry {
	e := Entry{
		Name: obs.LocationName,
		Zip:  query.Zip,
		Temp: units.Round(obs.TemperatureFahrenheit()),
	}
	if query.ByCoordinates() {
		lat, lon := *query.Lat, *query.Lon
		e.Lat, e.Lon = &lat, &lon
	}
	return e
}

// IdentityPolicy decides which field makes two entries the same location.
type IdentityPolicy string

const (
	// IdentityZipOrName matches on zip when the entry has one, else on name.
	IdentityZipOrName IdentityPolicy = "zip-or-name"
	IdentityName      IdentityPolicy = "name"
	IdentityZip       IdentityPolicy = "zip"
)

// ParseIdentityPolicy parses a configured policy name.
func ParseIdentityPolicy(s string) (IdentityPolicy, error) {
	switch p := IdentityPolicy(s); p {
	case IdentityZipOrName, IdentityName, IdentityZip:
		return p, nil
	case "":
		return IdentityZipOrName, nil
	}
	return "", fmt.Errorf("unknown favorites identity policy %q", s)
}

// Key returns the identity of e under the policy.
func (p IdentityPolicy) Key(e Entry) string {
	switch p {
	case IdentityName:
		return "name:" + e.Name
	case IdentityZip:
		return "zip:" + e.Zip
	}
	if e.Zip != "" {
		return "zip:" + e.Zip
	}
	return "name:" + e.Name
}

// Service reads and writes the favorites list. Every mutation is a single
// read-modify-write of the whole list, so a failed write leaves the stored
// list as it was.
type Service struct {
	mu     sync.Mutex
	store  storage.Store
	policy IdentityPolicy
	logger *zap.SugaredLogger
}

// NewService creates a favorites service over store.
func NewService(store storage.Store, policy IdentityPolicy, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, policy: policy, logger: logger}
}

// Policy returns the identity policy in use.
func (s *Service) Policy() IdentityPolicy {
	return s.policy
}

// List returns the saved locations in the order they were added.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	raw, found, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Errorf("error loading favorites: %v", err)
		return nil, err
	}
	if !found || raw == "" {
		return []Entry{}, nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		serr := &storage.Error{Op: "decode", Key: StorageKey, Backend: "favorites", Err: err}
		s.logger.Errorf("error loading favorites: %v", serr)
		return nil, serr
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Contains reports whether an entry with the same identity as e is saved.
func (s *Service) Contains(ctx context.Context, e Entry) (bool, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return s.indexOf(entries, s.policy.Key(e)) >= 0, nil
}

// Add saves e unless an entry with the same identity already exists, and
// returns the resulting list.
func (s *Service) Add(ctx context.Context, e Entry) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.add(ctx, entries, e)
}

// Remove deletes the entry with the given identity key and returns the
// resulting list. Removing an unknown key is a no-op.
func (s *Service) Remove(ctx context.Context, key string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.remove(ctx, entries, key)
}

// Toggle removes e if it is saved and adds it otherwise. saved reports the
// state after the call, which is unchanged when the write fails.
func (s *Service) Toggle(ctx context.Context, e Entry) (entries []Entry, saved bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.List(ctx)
	if err != nil {
		return nil, false, err
	}

	key := s.policy.Key(e)
	if s.indexOf(current, key) >= 0 {
		entries, err = s.remove(ctx, current, key)
		return entries, err != nil, err
	}
	entries, err = s.add(ctx, current, e)
	return entries, err == nil, err
}

func (s *Service) add(ctx context.Context, entries []Entry, e Entry) ([]Entry, error) {
	if s.indexOf(entries, s.policy.Key(e)) >= 0 {
		return entries, nil
	}
	updated := make([]Entry, 0, len(entries)+1)
	updated = append(updated, entries...)
	updated = append(updated, e)
	return s.save(ctx, entries, updated)
}

func (s *Service) remove(ctx context.Context, entries []Entry, key string) ([]Entry, error) {
	i := s.indexOf(entries, key)
	if i < 0 {
		return entries, nil
	}
	updated := make([]Entry, 0, len(entries)-1)
	updated = append(updated, entries[:i]...)
	updated = append(updated, entries[i+1:]...)
	return s.save(ctx, entries, updated)
}

// Key returns the identity key of e under the service's policy.
func (s *Service) Key(e Entry) string {
	return s.policy.Key(e)
}

func (s *Service) indexOf(entries []Entry, key string) int {
	for i, e := range entries {
		if s.policy.Key(e) == key {
			return i
		}
	}
	return -1
}

// save writes updated, returning previous with the error if the write fails.
func (s *Service) save(ctx context.Context, previous, updated []Entry) ([]Entry, error) {
	data, err := json.Marshal(updated)
	if err != nil {
		return previous, fmt.Errorf("unable to encode favorites: %w", err)
	}
	if err := s.store.Set(ctx, StorageKey, string(data)); err != nil {
		s.logger.Errorf("error saving favorites: %v", err)
		return previous, err
	}
	return updated, nil
}
