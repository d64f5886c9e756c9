// Package session persists the signed-in principal in the key-value store
// and publishes it as an auth.Source.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"calendrette/internal/domain/account"
	"calendrette/internal/domain/auth"
	"calendrette/internal/infra/kvstore"

	"github.com/sirupsen/logrus"
)

// Key is the store key holding the signed-in principal ID.
const Key = "session"

// Provider starts in the unknown state and resolves once Start has read the
// stored session.
type Provider struct {
	store    kvstore.Store
	accounts account.Repository
	logger   *logrus.Entry
	wg       sync.WaitGroup

	mu     sync.Mutex
	state  auth.State
	subs   map[int]func(auth.State)
	nextID int
}

// NewProvider builds a provider. accounts may be nil, in which case a
// stored session is trusted without a lookup.
func NewProvider(store kvstore.Store, accounts account.Repository, logger *logrus.Entry) *Provider {
	return &Provider{
		store:    store,
		accounts: accounts,
		logger:   logger,
		subs:     make(map[int]func(auth.State)),
	}
}

// Start resolves the stored session in the background. Cancelling ctx
// abandons the account lookup.
func (p *Provider) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.publish(p.resolve(ctx))
	}()
}

// Close waits for a resolution started by Start to finish. Call it before
// closing the store or the account repository.
func (p *Provider) Close() {
	p.wg.Wait()
}

func (p *Provider) resolve(ctx context.Context) auth.State {
	raw, ok, err := p.store.Get(Key)
	if err != nil {
		p.logger.Warnf("Could not read stored session: %v", err)
		return auth.Unauthenticated()
	}
	if !ok || raw == "" {
		return auth.Unauthenticated()
	}
	if p.accounts == nil {
		return auth.Authenticated(raw)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.logger.Warnf("Discarding malformed session %q", raw)
		p.clear()
		return auth.Unauthenticated()
	}
	acc, err := p.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			p.logger.Infof("Session account %d no longer exists, signing out", id)
			p.clear()
		} else {
			p.logger.Errorf("Could not verify session account %d: %v", id, err)
		}
		return auth.Unauthenticated()
	}
	return auth.Authenticated(acc.PrincipalID())
}

func (p *Provider) clear() {
	if err := p.store.Delete(Key); err != nil {
		p.logger.Warnf("Could not clear stored session: %v", err)
	}
}

func (p *Provider) Current() auth.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Provider) Subscribe(fn func(auth.State)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	current := p.state
	p.mu.Unlock()

	if current.Status != auth.StatusUnknown {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

// SignIn stores principalID as the session and publishes it.
func (p *Provider) SignIn(principalID string) error {
	if principalID == "" {
		return fmt.Errorf("sign in: empty principal id")
	}
	if err := p.store.Set(Key, principalID); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	p.publish(auth.Authenticated(principalID))
	return nil
}

// SignOut removes the stored session and publishes the signed-out state.
func (p *Provider) SignOut() error {
	if err := p.store.Delete(Key); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	p.publish(auth.Unauthenticated())
	return nil
}

func (p *Provider) publish(s auth.State) {
	p.mu.Lock()
	p.state = s
	subs := make([]func(auth.State), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	p.logger.Debugf("Authentication state is now %s", s.Status)
	for _, fn := range subs {
		fn(s)
	}
}
