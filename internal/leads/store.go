package leads

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/inmo24x7/backoffice/internal/metrics"
)

// FetchState is the lead list lifecycle. Errors are absorbed into
// FetchReadyEmpty; there is no error terminal state.
type FetchState string

const (
	FetchIdle       FetchState = "idle"
	FetchLoading    FetchState = "loading"
	FetchReady      FetchState = "ready"
	FetchReadyEmpty FetchState = "ready-empty"
)

// Fetcher is the lead client surface the store depends on.
type Fetcher interface {
	FetchAll(ctx context.Context) []Lead
	Delete(ctx context.Context, id string) error
}

// Store is the source of truth for the currently displayed leads: the
// fetched list, the fetch lifecycle, and the active page.
type Store struct {
	client   Fetcher
	logger   *zap.Logger
	pageSize int

	mu    sync.Mutex
	leads []Lead
	page  int
	state FetchState
}

// Page is one immutable window over the lead list.
type Page struct {
	Items      []Lead     `json:"leads"`
	Number     int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	Total      int        `json:"total"`
	State      FetchState `json:"state"`
}

// NewStore builds the lead store.
func NewStore(client Fetcher, pageSize int, logger *zap.Logger) *Store {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client:   client,
		logger:   logger,
		pageSize: pageSize,
		state:    FetchIdle,
	}
}

// Refresh reloads the lead list. Re-enterable from any state; lands on
// FetchReady or FetchReadyEmpty, never an error.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.state = FetchLoading
	s.mu.Unlock()

	list := s.client.FetchAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = list
	if len(list) == 0 {
		s.state = FetchReadyEmpty
		s.page = 0
		metrics.LeadFetches.WithLabelValues("empty").Inc()
		return
	}
	s.state = FetchReady
	if s.page == 0 {
		s.page = 1
	}
	s.page = clampPage(s.page, len(s.leads), s.pageSize)
	metrics.LeadFetches.WithLabelValues("ready").Inc()
}

// State returns the current fetch lifecycle state.
func (s *Store) State() FetchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetPage moves the active page, clamped to the valid range.
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = clampPage(page, len(s.leads), s.pageSize)
}

// ActivePage returns the active page index (0 when no page is valid).
func (s *Store) ActivePage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Snapshot returns the current window plus paging metadata.
func (s *Store) Snapshot() Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := Paginate(s.leads, s.pageSize, s.page)
	if items == nil {
		items = []Lead{}
	}
	return Page{
		Items:      items,
		Number:     s.page,
		TotalPages: TotalPages(len(s.leads), s.pageSize),
		Total:      len(s.leads),
		State:      s.state,
	}
}

// Remove deletes a lead remotely and, on success, locally. The active page
// is pulled back to the new last valid page when its tail empties out. On
// failure the cached list and page are left untouched and the error is
// returned for the caller to surface.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, id); err != nil {
		metrics.LeadDeletions.WithLabelValues("error").Inc()
		s.logger.Warn("failed to delete lead", zap.String("id", id), zap.Error(err))
		return err
	}
	metrics.LeadDeletions.WithLabelValues("ok").Inc()

	s.mu.Lock()
	defer s.mu.Unlock()

	// A fresh slice, not in-place compaction: windows handed out by
	// Snapshot alias the old backing array and must keep reading the
	// pre-delete list.
	kept := make([]Lead, 0, len(s.leads))
	for _, lead := range s.leads {
		if lead.ID != id {
			kept = append(kept, lead)
		}
	}
	s.leads = kept
	s.page = clampPage(s.page, len(s.leads), s.pageSize)
	if len(s.leads) == 0 {
		s.state = FetchReadyEmpty
	}
	return nil
}
