// Package registry holds the claims of a session together with its table
// query and detail selection.
package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"claims-registry/internal/claims/present"
	"claims-registry/internal/claims/query"
	"claims-registry/internal/claims/record"
	apperrors "claims-registry/internal/common/errors"
	"claims-registry/internal/common/logger"
	"claims-registry/internal/common/metrics"
	"claims-registry/internal/common/notify"
	"claims-registry/internal/models"

	"github.com/google/uuid"
)

// maxIDAttempts bounds regeneration of colliding generated ids.
const maxIDAttempts = 5

// View is the visible page of the table.
type View struct {
	Rows          []present.Row     `json:"rows"`
	Page          int               `json:"page"`
	PageSize      int               `json:"pageSize"`
	TotalPages    int               `json:"totalPages"`
	FilteredCount int               `json:"filteredCount"`
	TotalCount    int               `json:"totalCount"`
	Query         models.QueryState `json:"query"`
}

// Options carry the optional collaborators of a Store.
type Options struct {
	PageSize           int
	EnforceTransitions bool
	Presenter          *present.Adapter
	Cache              PageCache
	Indexer            Indexer
	Notifier           notify.Notifier
	Logger             logger.Logger
}

// Store is one session's registry. All methods are safe for concurrent use.
type Store struct {
	mu sync.Mutex

	sessionID string
	epoch     string
	repo      Repository
	factory   *record.Factory

	state    models.QueryState
	selected string
	revision uint64

	presenter *present.Adapter
	cache     PageCache
	indexer   Indexer
	notifier  notify.Notifier
	enforce   bool
	logger    logger.Logger
}

func NewStore(sessionID string, repo Repository, factory *record.Factory, opts Options) *Store {
	if opts.PageSize < 1 {
		opts.PageSize = 10
	}
	if opts.Presenter == nil {
		opts.Presenter = present.NewAdapter(present.Config{})
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if factory == nil {
		factory = record.NewFactory(models.StatusReviewing)
	}

	return &Store{
		sessionID: sessionID,
		epoch:     uuid.NewString()[:8],
		repo:      repo,
		factory:   factory,
		state:     models.DefaultQueryState(opts.PageSize),
		presenter: opts.Presenter,
		cache:     opts.Cache,
		indexer:   opts.Indexer,
		notifier:  opts.Notifier,
		enforce:   opts.EnforceTransitions,
		logger:    logger.ForSession(opts.Logger, sessionID),
	}
}

func (s *Store) SessionID() string {
	return s.sessionID
}

// Revision increases on every successful mutation.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Query returns the current query state.
func (s *Store) Query() models.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Records returns every claim in display order.
func (s *Store) Records(ctx context.Context) ([]models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.List(ctx)
}

// AddRecord validates in, stores the new claim first, and switches the table
// to the tab of the claim's status on page 1 so the claim is visible.
func (s *Store) AddRecord(ctx context.Context, in record.Input) (claim models.Claim, err error) {
	defer func() { observe("add", err) }()

	claim, err = s.factory.New(in)
	if err != nil {
		s.notify(ctx, models.Notification{
			Title:    "Submission Failed",
			Message:  "Please correct the highlighted fields and submit again.",
			Severity: models.SeverityError,
		})
		return models.Claim{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assignID(ctx, &claim, in.ID != ""); err != nil {
		return models.Claim{}, err
	}
	if err := s.repo.Prepend(ctx, claim); err != nil {
		return models.Claim{}, err
	}

	s.state.Category = models.Category(claim.Status)
	s.state.Page = 1
	s.revision++

	s.logger.Info("claim added", map[string]interface{}{
		"claimId": claim.ID,
		"kind":    claim.Kind,
		"amount":  claim.Amount,
	})
	s.index(ctx, claim)
	s.notify(ctx, models.Notification{
		Title:    "Claim Submitted",
		Message:  fmt.Sprintf("Claim %s has been successfully submitted for review.", claim.ID),
		Severity: models.SeveritySuccess,
		Payload:  map[string]interface{}{"claimId": claim.ID},
	})
	return claim, nil
}

// assignID rejects a taken forced id and regenerates a taken generated one.
func (s *Store) assignID(ctx context.Context, claim *models.Claim, forced bool) error {
	for attempt := 0; ; attempt++ {
		taken, err := s.repo.Exists(ctx, claim.ID)
		if err != nil {
			return err
		}
		if !taken {
			return nil
		}
		if forced {
			return apperrors.NewDuplicateClaimIDError(claim.ID)
		}
		if attempt+1 >= maxIDAttempts {
			return apperrors.NewInternalError(fmt.Errorf("no free claim id after %d attempts", maxIDAttempts))
		}
		s.logger.Warn("generated claim id collided", map[string]interface{}{"claimId": claim.ID})
		claim.ID = s.factory.IDs.NextID(claim.Kind)
	}
}

// UpdateRecord replaces the claim with id by c.
func (s *Store) UpdateRecord(ctx context.Context, id string, c models.Claim) (updated models.Claim, err error) {
	defer func() { observe("update", err) }()

	if c.ID == "" {
		c.ID = id
	}
	if c.ID != id {
		return models.Claim{}, &apperrors.ValidationError{
			Entity: apperrors.EntityClaim,
			Fields: []apperrors.FieldError{{Field: "id", Message: fmt.Sprintf("must equal %s", id), Code: "ID_MISMATCH"}},
		}
	}
	if err := c.Validate(); err != nil {
		return models.Claim{}, &apperrors.ValidationError{
			Entity: apperrors.EntityClaim,
			Fields: []apperrors.FieldError{{Field: "claim", Message: err.Error(), Code: "INVALID_RECORD"}},
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Claim{}, err
	}
	if s.enforce {
		if err := CheckTransition(current.Status, c.Status); err != nil {
			return models.Claim{}, err
		}
	}
	if err := s.repo.Replace(ctx, c); err != nil {
		return models.Claim{}, err
	}
	s.revision++

	s.logger.Info("claim updated", map[string]interface{}{
		"claimId": id,
		"from":    current.Status,
		"to":      c.Status,
	})
	s.index(ctx, c)
	return c.Clone(), nil
}

// DeleteRecord removes the claim and clears a selection pointing at it.
func (s *Store) DeleteRecord(ctx context.Context, id string) (err error) {
	defer func() { observe("delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.selected == id {
		s.selected = ""
	}
	s.revision++

	s.logger.Info("claim deleted", map[string]interface{}{"claimId": id})
	if s.indexer != nil {
		if err := s.indexer.Remove(ctx, s.sessionID, id); err != nil {
			s.backendFailed("search", "search index remove failed", err)
		}
	}
	return nil
}

// SelectForDetail selects id. An unknown id keeps the previous selection.
func (s *Store) SelectForDetail(ctx context.Context, id string) (claim models.Claim, err error) {
	defer func() { observe("select", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	claim, err = s.repo.Get(ctx, id)
	if err != nil {
		return models.Claim{}, err
	}
	s.selected = id
	return claim, nil
}

// Selected returns the selected claim, if any.
func (s *Store) Selected(ctx context.Context) (models.Claim, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == "" {
		return models.Claim{}, false, nil
	}
	claim, err := s.repo.Get(ctx, s.selected)
	if err != nil {
		var nf *apperrors.NotFoundError
		if errors.As(err, &nf) {
			s.selected = ""
			return models.Claim{}, false, nil
		}
		return models.Claim{}, false, err
	}
	return claim, true, nil
}

// Row renders c the way View renders table rows.
func (s *Store) Row(c models.Claim) present.Row {
	return s.presenter.ToRow(c)
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// SetQuery merges patch into the query. Changing text, category or kind
// returns to page 1.
func (s *Store) SetQuery(patch models.QueryPatch) (state models.QueryState, err error) {
	defer func() { observe("set_query", err) }()

	if err := validatePatch(patch); err != nil {
		return models.QueryState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	reset := false
	if patch.Text != nil && *patch.Text != next.Text {
		next.Text = *patch.Text
		reset = true
	}
	if patch.Category != nil && *patch.Category != next.Category {
		next.Category = *patch.Category
		reset = true
	}
	if patch.Kind != nil && *patch.Kind != next.Kind {
		next.Kind = *patch.Kind
		reset = true
	}
	if patch.Sort != nil {
		next.Sort = *patch.Sort
	}
	if patch.PageSize != nil {
		next.PageSize = *patch.PageSize
	}
	if patch.Page != nil {
		next.Page = *patch.Page
	}
	if reset {
		next.Page = 1
	}

	s.state = next
	return next, nil
}

func validatePatch(p models.QueryPatch) error {
	switch {
	case p.Category != nil && !p.Category.Valid():
		return apperrors.NewInvalidQueryError(fmt.Sprintf("unknown category %q", *p.Category))
	case p.Kind != nil && !p.Kind.Valid():
		return apperrors.NewInvalidQueryError(fmt.Sprintf("unknown kind %q", *p.Kind))
	case p.Sort != nil && !p.Sort.Key.Valid():
		return apperrors.NewInvalidQueryError(fmt.Sprintf("unknown sort key %q", p.Sort.Key))
	case p.Sort != nil && !p.Sort.Direction.Valid():
		return apperrors.NewInvalidQueryError(fmt.Sprintf("unknown sort direction %q", p.Sort.Direction))
	case p.PageSize != nil && *p.PageSize < 1:
		return apperrors.NewInvalidQueryError("pageSize must be at least 1")
	}
	return nil
}

// RequestSort toggles the sort like a column header click.
func (s *Store) RequestSort(key models.SortKey) (state models.QueryState, err error) {
	defer func() { observe("sort", err) }()

	if !key.Valid() {
		return models.QueryState{}, apperrors.NewInvalidQueryError(fmt.Sprintf("unknown sort key %q", key))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Sort = query.NextSort(s.state.Sort, key)
	return s.state, nil
}

// View renders the visible page. The page number in the result is clamped
// to the available pages.
func (s *Store) View(ctx context.Context) (view View, err error) {
	defer func() { observe("view", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.cacheKey()
	if cached, ok := s.cachedView(ctx, key); ok {
		return cached, nil
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return View{}, err
	}
	result := query.Apply(records, s.state)

	view = View{
		Rows:          s.presenter.ToRows(result.Page.Items),
		Page:          result.Page.Page,
		PageSize:      result.Page.PageSize,
		TotalPages:    result.Page.TotalPages,
		FilteredCount: result.FilteredCount,
		TotalCount:    result.TotalCount,
		Query:         s.state,
	}
	view.Query.Page = view.Page

	s.storeView(ctx, key, view)
	return view, nil
}

func (s *Store) cacheKey() string {
	if s.cache == nil {
		return ""
	}
	state, _ := json.Marshal(s.state)
	sum := sha256.Sum256(state)
	return fmt.Sprintf("claims:view:%s:%s:%d:%s", s.sessionID, s.epoch, s.revision, hex.EncodeToString(sum[:12]))
}

func (s *Store) cachedView(ctx context.Context, key string) (View, bool) {
	if s.cache == nil {
		return View{}, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.backendFailed("cache", "view cache read failed", err)
		return View{}, false
	}
	if !ok {
		metrics.ViewCacheLookups.WithLabelValues("miss").Inc()
		return View{}, false
	}

	var view View
	if err := json.Unmarshal(data, &view); err != nil {
		s.logger.Warn("discarding undecodable cached view", map[string]interface{}{"key": key, "error": err.Error()})
		metrics.ViewCacheLookups.WithLabelValues("miss").Inc()
		return View{}, false
	}
	metrics.ViewCacheLookups.WithLabelValues("hit").Inc()
	return view, true
}

func (s *Store) storeView(ctx context.Context, key string, view View) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		s.logger.Warn("view not cacheable", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.backendFailed("cache", "view cache write failed", err)
	}
}

func (s *Store) index(ctx context.Context, c models.Claim) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.Index(ctx, s.sessionID, c); err != nil {
		s.backendFailed("search", "search index update failed", err)
	}
}

func (s *Store) notify(ctx context.Context, n models.Notification) {
	if s.notifier == nil {
		return
	}
	n.SessionID = s.sessionID
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.backendFailed("notification", "notification delivery failed", err)
	}
}

// backendFailed logs and counts a bypassed optional backend failure.
func (s *Store) backendFailed(backend, msg string, err error) {
	metrics.BackendErrors.WithLabelValues(backend).Inc()
	s.logger.Warn(msg, map[string]interface{}{"backend": backend, "error": err.Error()})
}

func observe(operation string, err error) {
	metrics.RegistryOperations.WithLabelValues(operation, Outcome(err)).Inc()
}

// Outcome classifies an operation result for metrics and job output.
func Outcome(err error) string {
	var (
		vErr  *apperrors.ValidationError
		nfErr *apperrors.NotFoundError
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &nfErr):
		return metrics.OutcomeNotFound
	case errors.As(err, &vErr),
		apperrors.HasCode(err, apperrors.ErrCodeDuplicateClaimID),
		apperrors.HasCode(err, apperrors.ErrCodeInvalidQuery),
		apperrors.HasCode(err, apperrors.ErrCodeInvalidStatusTransition):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}
