// Package testutil holds in-memory collaborators shared by package tests.
package testutil

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"calendrette/internal/domain/auth"
	"calendrette/internal/domain/period"
)

// MemoryCollection is an in-memory period.Collection. FailAppendAfter makes
// Append fail once that many appends have succeeded (0 disables it).
type MemoryCollection struct {
	mu              sync.Mutex
	records         map[string][]period.Record
	nextID          int
	Calls           int
	FailAppendAfter int
	appends         int
	Err             error
}

func NewMemoryCollection() *MemoryCollection {
	return &MemoryCollection{records: map[string][]period.Record{}}
}

func (c *MemoryCollection) List(_ context.Context, ownerID string) ([]period.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	out := append([]period.Record(nil), c.records[ownerID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (c *MemoryCollection) Append(_ context.Context, ownerID string, r period.Record) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	if c.FailAppendAfter > 0 && c.appends >= c.FailAppendAfter {
		return "", c.Err
	}
	c.appends++
	c.nextID++
	r.ID = strconv.Itoa(c.nextID)
	c.records[ownerID] = append(c.records[ownerID], r)
	return r.ID, nil
}

func (c *MemoryCollection) Delete(_ context.Context, ownerID string, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls++
	c.records[ownerID] = period.Filter(c.records[ownerID], id)
	return nil
}

// Seed stores records for owner as if appended.
func (c *MemoryCollection) Seed(ownerID string, records ...period.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range records {
		c.nextID++
		if r.ID == "" {
			r.ID = strconv.Itoa(c.nextID)
		}
		c.records[ownerID] = append(c.records[ownerID], r)
	}
}

// Count returns how many records owner has.
func (c *MemoryCollection) Count(ownerID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records[ownerID])
}

// StaticAuth is an auth.Source whose state is set directly.
type StaticAuth struct {
	mu    sync.Mutex
	state auth.State
}

func NewStaticAuth(s auth.State) *StaticAuth {
	return &StaticAuth{state: s}
}

func (a *StaticAuth) Current() auth.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *StaticAuth) Subscribe(fn func(auth.State)) func() {
	if s := a.Current(); s.Status != auth.StatusUnknown {
		fn(s)
	}
	return func() {}
}

func (a *StaticAuth) Set(s auth.State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}
