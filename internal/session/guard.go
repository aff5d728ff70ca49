// Package session gates the staff areas behind per-scope passwords with independent expiry.
package session

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/opdqueue/config"
	"github.com/Domenick1991/opdqueue/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"
)

// Store persists one issue timestamp per (holder, scope).
type Store interface {
	Issued(ctx context.Context, holder string, scope domain.Scope) (time.Time, bool, error)
	Issue(ctx context.Context, holder string, scope domain.Scope, at time.Time, ttl time.Duration) error
	Remove(ctx context.Context, holder string, scope domain.Scope) error
}

type Policy struct {
	Secret  string
	Timeout time.Duration
}

type Status struct {
	Scope     domain.Scope `json:"scope"`
	Active    bool         `json:"active"`
	IssuedAt  time.Time    `json:"issued_at,omitempty"`
	ExpiresAt time.Time    `json:"expires_at,omitempty"`
}

type Guard struct {
	store    Store
	policies map[domain.Scope]Policy
	now      func() time.Time
	log      *zap.Logger
}

type Option func(*Guard)

func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(g *Guard) { g.log = log }
}

func NewGuard(store Store, policies map[domain.Scope]Policy, opts ...Option) *Guard {
	g := &Guard{store: store, policies: policies, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// PoliciesFromConfig maps the sessions section onto scopes.
func PoliciesFromConfig(cfg config.SessionsConfig) map[domain.Scope]Policy {
	p := func(sc config.ScopeConfig) Policy {
		return Policy{Secret: sc.Password, Timeout: time.Duration(sc.TimeoutMinutes) * time.Minute}
	}
	return map[domain.Scope]Policy{
		domain.ScopeAdmin:       p(cfg.Admin),
		domain.ScopeLiveDisplay: p(cfg.LiveDisplay),
		domain.ScopeDoctors:     p(cfg.Doctors),
		domain.ScopeInquiries:   p(cfg.Inquiries),
		domain.ScopeFinancials:  p(cfg.Financials),
	}
}

// Expired is true once more than timeout has passed since issuedAt.
func Expired(issuedAt time.Time, timeout time.Duration, now time.Time) bool {
	return now.Sub(issuedAt) > timeout
}

// Login returns false on a wrong password; err is reserved for store failures.
func (g *Guard) Login(ctx context.Context, holder string, scope domain.Scope, password string) (bool, error) {
	policy, err := g.policy(scope)
	if err != nil {
		return false, err
	}
	if policy.Secret == "" || !matches(policy.Secret, password) {
		g.log.Info("session login rejected", zap.String("scope", string(scope)))
		return false, nil
	}
	if err := g.store.Issue(ctx, holder, scope, g.now(), policy.Timeout); err != nil {
		return false, fmt.Errorf("issue session: %w", err)
	}
	return true, nil
}

// IsActive clears the marker when it has expired.
func (g *Guard) IsActive(ctx context.Context, holder string, scope domain.Scope) (bool, error) {
	st, err := g.Status(ctx, holder, scope)
	if err != nil {
		return false, err
	}
	return st.Active, nil
}

func (g *Guard) Status(ctx context.Context, holder string, scope domain.Scope) (Status, error) {
	policy, err := g.policy(scope)
	if err != nil {
		return Status{}, err
	}
	st := Status{Scope: scope}
	if holder == "" {
		return st, nil
	}
	issued, ok, err := g.store.Issued(ctx, holder, scope)
	if err != nil {
		return Status{}, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return st, nil
	}
	if Expired(issued, policy.Timeout, g.now()) {
		if err := g.store.Remove(ctx, holder, scope); err != nil {
			return Status{}, fmt.Errorf("expire session: %w", err)
		}
		return st, nil
	}
	st.Active = true
	st.IssuedAt = issued
	st.ExpiresAt = issued.Add(policy.Timeout)
	return st, nil
}

// Require fails with domain.ErrAuth unless the scope is active.
func (g *Guard) Require(ctx context.Context, holder string, scope domain.Scope) (Status, error) {
	st, err := g.Status(ctx, holder, scope)
	if err != nil {
		return Status{}, err
	}
	if !st.Active {
		return Status{}, fmt.Errorf("%s: %w", scope, domain.ErrAuth)
	}
	return st, nil
}

func (g *Guard) Logout(ctx context.Context, holder string, scope domain.Scope) error {
	if _, err := g.policy(scope); err != nil {
		return err
	}
	return g.store.Remove(ctx, holder, scope)
}

func (g *Guard) LogoutAll(ctx context.Context, holder string) error {
	for _, scope := range domain.AllScopes {
		if err := g.Logout(ctx, holder, scope); err != nil {
			return err
		}
	}
	return nil
}

func (g *Guard) policy(scope domain.Scope) (Policy, error) {
	p, ok := g.policies[scope]
	if !ok {
		return Policy{}, domain.NewValidationError("scope", fmt.Sprintf("unknown scope %q", scope))
	}
	return p, nil
}

// matches accepts either a bcrypt hash or a plain shared secret.
func matches(secret, password string) bool {
	if strings.HasPrefix(secret, "$2a$") || strings.HasPrefix(secret, "$2b$") || strings.HasPrefix(secret, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(secret), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(password)) == 1
}

type key struct {
	holder string
	scope  domain.Scope
}

// MemoryStore is the single-process Store.
type MemoryStore struct {
	mu     sync.Mutex
	issued map[key]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{issued: make(map[key]time.Time)}
}

func (s *MemoryStore) Issued(_ context.Context, holder string, scope domain.Scope) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.issued[key{holder, scope}]
	return at, ok, nil
}

func (s *MemoryStore) Issue(_ context.Context, holder string, scope domain.Scope, at time.Time, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[key{holder, scope}] = at
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, holder string, scope domain.Scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.issued, key{holder, scope})
	return nil
}

var _ Store = (*MemoryStore)(nil)
