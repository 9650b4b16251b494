package registry

import (
	"context"
	"slices"
	"strings"
	"sync"

	"claims-registry/internal/claims/directory"
	"claims-registry/internal/claims/present"
	"claims-registry/internal/claims/record"
	"claims-registry/internal/claims/seed"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"
	"claims-registry/internal/common/metrics"
	"claims-registry/internal/common/notify"
	"claims-registry/internal/models"
)

// Session is everything one user sees: the claims table and both provider
// directories.
type Session struct {
	ID        string
	Claims    *Store
	Hospitals *directory.Directory
	Insurers  *directory.Directory
}

// Directory returns the provider directory of kind, or nil.
func (s *Session) Directory(kind models.ProviderType) *directory.Directory {
	switch kind {
	case models.ProviderHospital:
		return s.Hospitals
	case models.ProviderInsurer:
		return s.Insurers
	}
	return nil
}

// ManagerConfig wires the collaborators shared by every session.
type ManagerConfig struct {
	PageSize           int
	EnforceTransitions bool
	Seed               *seed.Set
	Repositories       RepositoryFactory
	Factory            *record.Factory
	Presenter          *present.Adapter
	Cache              PageCache
	Indexer            Indexer
	Notifier           notify.Notifier
	Logger             logger.Logger
}

// Manager creates sessions on first use and keeps them until Reset.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      ManagerConfig
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Repositories == nil {
		cfg.Repositories = MemoryFactory()
	}
	if cfg.Factory == nil {
		cfg.Factory = record.NewFactory(models.StatusReviewing)
	}
	if cfg.Seed == nil {
		cfg.Seed = &seed.Set{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoOpLogger()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
	}
}

// Get returns the session, creating and seeding it on first use. A session
// whose repository already holds claims is not reseeded.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperrors.NewInvalidQueryError("sessionId is required")
	}

	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return sess, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[sessionID]; ok {
		return sess, nil
	}

	sess, err := m.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	m.sessions[sessionID] = sess
	metrics.RegistrySessions.Set(float64(len(m.sessions)))
	return sess, nil
}

func (m *Manager) open(ctx context.Context, sessionID string) (*Session, error) {
	repo, err := m.cfg.Repositories.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	seeded, err := m.seed(ctx, repo)
	if err != nil {
		return nil, err
	}

	data := m.cfg.Seed.Clone()
	sess := &Session{
		ID: sessionID,
		Claims: NewStore(sessionID, repo, m.cfg.Factory, Options{
			PageSize:           m.cfg.PageSize,
			EnforceTransitions: m.cfg.EnforceTransitions,
			Presenter:          m.cfg.Presenter,
			Cache:              m.cfg.Cache,
			Indexer:            m.cfg.Indexer,
			Notifier:           m.cfg.Notifier,
			Logger:             m.cfg.Logger,
		}),
		Hospitals: directory.New(models.ProviderHospital, data.Hospitals),
		Insurers:  directory.New(models.ProviderInsurer, data.Insurers),
	}

	logger.ForSession(m.cfg.Logger, sessionID).Info("session opened", map[string]interface{}{
		"seededClaims": seeded,
	})
	return sess, nil
}

// seed fills an empty repository, keeping the seed file order.
func (m *Manager) seed(ctx context.Context, repo Repository) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil || n > 0 {
		return 0, err
	}
	claims := m.cfg.Seed.Claims
	for i := len(claims) - 1; i >= 0; i-- {
		if err := repo.Prepend(ctx, claims[i]); err != nil {
			return 0, err
		}
	}
	return len(claims), nil
}

// Reset forgets a session; the next Get starts it again. Persistent
// repositories keep their claims.
func (m *Manager) Reset(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	metrics.RegistrySessions.Set(float64(len(m.sessions)))
	return ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SessionIDs lists open sessions in sorted order.
func (m *Manager) SessionIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
