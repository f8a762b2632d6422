package pages

import (
	"context"
	"time"

	"fpl-go-dashboard/internal/layout"
	"fpl-go-dashboard/internal/services"
)

// Workspace is one browser session's dashboard: the layout shell and one
// controller per page. Pages share nothing with each other.
type Workspace struct {
	Variant   Variant
	Shell     *layout.Shell
	Hub       *GameweekHub
	Squad     *MySquad
	Picks     *TopPicks
	Optimal   *OptimalSquad
	Transfers *TransferPlanner
	Insights  *ModelInsights
}

func NewWorkspace(backend Backend, variant Variant, observer LoadObserver) *Workspace {
	return &Workspace{
		Variant:   variant,
		Shell:     layout.NewShell(),
		Hub:       NewGameweekHub(backend, variant, observer),
		Squad:     NewMySquad(variant),
		Picks:     NewTopPicks(backend, variant, observer),
		Optimal:   NewOptimalSquad(backend, variant, observer),
		Transfers: NewTransferPlanner(backend, variant, observer),
		Insights:  NewModelInsights(backend, variant, observer),
	}
}

// Open makes page active and runs its load-on-mount fetch if it has never
// loaded. It returns the page's view.
func (w *Workspace) Open(ctx context.Context, page layout.Page) any {
	w.Shell.Navigate(page)
	switch page {
	case layout.PagePicks:
		w.Picks.EnsureLoaded(ctx)
	case layout.PageInsights:
		w.Insights.EnsureLoaded(ctx)
	case layout.PageHome:
		w.Hub.EnsureLoaded(ctx)
	}
	return w.View(page)
}

// View returns the view of page without fetching
func (w *Workspace) View(page layout.Page) any {
	switch page {
	case layout.PageSquad:
		return w.Squad.View()
	case layout.PagePicks:
		return w.Picks.View()
	case layout.PageOptimal:
		return w.Optimal.View()
	case layout.PageTransfers:
		return w.Transfers.View()
	case layout.PageInsights:
		return w.Insights.View()
	default:
		return w.Hub.View()
	}
}

// Registry hands out one workspace per session and forgets sessions that
// have been idle for the TTL.
type Registry struct {
	backend  Backend
	variant  Variant
	observer LoadObserver
	cache    *services.Cache[string, *Workspace]
}

func NewRegistry(backend Backend, variant Variant, observer LoadObserver, ttl time.Duration) *Registry {
	return &Registry{
		backend:  backend,
		variant:  variant,
		observer: observer,
		cache:    services.NewCache[string, *Workspace](ttl),
	}
}

// Get returns the workspace of session, creating it on first use
func (r *Registry) Get(session string) *Workspace {
	return r.cache.GetOrCreate(session, func() *Workspace {
		return NewWorkspace(r.backend, r.variant, r.observer)
	})
}

// Len is the number of live sessions
func (r *Registry) Len() int { return r.cache.Len() }

// Close stops the expiry loop
func (r *Registry) Close() { r.cache.Close() }
