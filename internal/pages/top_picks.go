package pages

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"fpl-go-dashboard/internal/layout"
	"fpl-go-dashboard/internal/models"
	"fpl-go-dashboard/pkg/fplapi"
)

// SortKey orders the Top Picks table
type SortKey string

const (
	SortPredicted SortKey = "predicted_pts"
	SortPrice     SortKey = "price"
	SortForm      SortKey = "avg_pts_last3"
	SortXGI       SortKey = "avg_xgi_last3"
)

// SortKeys lists the sort options in display order
var SortKeys = []SortKey{SortPredicted, SortPrice, SortForm, SortXGI}

// ParseSortKey resolves a sort key; empty means predicted points
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortPredicted, nil
	}
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Price slider bounds, in £m
var (
	MinPickPrice  = decimal.NewFromInt(4)
	MaxPickPrice  = decimal.NewFromInt(15)
	PickPriceStep = decimal.NewFromFloat(0.5)
)

const DefaultPickLimit = 50

// PickFilters are the Top Picks inputs that trigger a fetch
type PickFilters struct {
	Position      models.Position `json:"position"`
	MaxPrice      float64         `json:"max_price"`
	OnlyAvailable bool            `json:"only_available"`
	Limit         int             `json:"limit"`
}

// DefaultPickFilters shows every available player up to £15m
func DefaultPickFilters() PickFilters {
	return PickFilters{
		MaxPrice:      MaxPickPrice.InexactFloat64(),
		OnlyAvailable: true,
		Limit:         DefaultPickLimit,
	}
}

func (f PickFilters) Validate() error {
	if f.Position != "" && !f.Position.Valid() {
		return fmt.Errorf("unknown position %q", f.Position)
	}
	if err := checkStep("max price", decimal.NewFromFloat(f.MaxPrice), MinPickPrice, MaxPickPrice, PickPriceStep); err != nil {
		return err
	}
	if f.Limit <= 0 {
		return fmt.Errorf("limit must be positive")
	}
	return nil
}

func (f PickFilters) query() fplapi.PlayerFilters {
	return fplapi.PlayerFilters{
		Position:      f.Position,
		MaxPrice:      fplapi.Float(f.MaxPrice),
		OnlyAvailable: fplapi.Bool(f.OnlyAvailable),
		Limit:         fplapi.Int(f.Limit),
	}
}

// checkStep validates that v lies in [min, max] on a step grid starting at min
func checkStep(label string, v, min, max, step decimal.Decimal) error {
	if v.LessThan(min) || v.GreaterThan(max) {
		return fmt.Errorf("%s must be between %s and %s", label, min, max)
	}
	if !v.Sub(min).Mod(step).IsZero() {
		return fmt.Errorf("%s must move in steps of %s", label, step)
	}
	return nil
}

// TopPicks lists predicted points with position, price and availability
// filters. Sorting happens over the fetched rows without a new request.
type TopPicks struct {
	backend Backend
	variant Variant
	ctrl    *Controller[PickFilters, []models.Player]

	mu      sync.RWMutex
	sortKey SortKey
}

func NewTopPicks(backend Backend, variant Variant, observer LoadObserver) *TopPicks {
	p := &TopPicks{backend: backend, variant: variant, sortKey: SortPredicted}
	p.ctrl = NewController(string(layout.PagePicks), DefaultPickFilters(), p.fetch, observer)
	return p
}

func (p *TopPicks) fetch(ctx context.Context, f PickFilters) ([]models.Player, error) {
	return p.backend.ListPlayers(ctx, f.query())
}

// Load fetches with new filters. Invalid filters are rejected before any
// request is made.
func (p *TopPicks) Load(ctx context.Context, f PickFilters) error {
	if err := f.Validate(); err != nil {
		return err
	}
	p.ctrl.Load(ctx, f)
	return nil
}

// EnsureLoaded fetches with the current filters if nothing was fetched yet
func (p *TopPicks) EnsureLoaded(ctx context.Context) {
	if p.ctrl.State().Status == StatusIdle {
		p.ctrl.Retry(ctx)
	}
}

func (p *TopPicks) Retry(ctx context.Context) { p.ctrl.Retry(ctx) }

// Filters returns the filters of the last load
func (p *TopPicks) Filters() PickFilters { return p.ctrl.State().Params }

// Started reports whether any load has been issued
func (p *TopPicks) Started() bool { return p.ctrl.State().Status != StatusIdle }

// SetSort changes the order of the rows
func (p *TopPicks) SetSort(key SortKey) {
	p.mu.Lock()
	p.sortKey = key
	p.mu.Unlock()
}

func (p *TopPicks) currentSort() SortKey {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sortKey
}

// PickRow is one line of the Top Picks table
type PickRow struct {
	Rank   int           `json:"rank"`
	Player models.Player `json:"player"`
	BarPct float64       `json:"bar_pct"`
}

// TopPicksView is the rendered Top Picks page
type TopPicksView struct {
	Copy
	Filters PickFilters `json:"filters"`
	Sort    SortKey     `json:"sort"`
	Status  Status      `json:"status"`
	Error   string      `json:"error,omitempty"`
	Loading bool        `json:"loading"`
	Rows    []PickRow   `json:"rows"`
	MaxPts  float64     `json:"max_pts"`
	Total   int         `json:"total"`
	Empty   bool        `json:"empty"`
}

func (p *TopPicks) View() TopPicksView {
	st := p.ctrl.State()
	key := p.currentSort()
	v := TopPicksView{
		Copy:    p.variant.Copy(layout.PagePicks),
		Filters: st.Params,
		Sort:    key,
		Status:  st.Status,
		Error:   st.Err,
		Loading: st.Loading(),
	}
	if !st.HasData {
		v.Empty = true
		return v
	}

	players := FilterPlayers(st.Data, st.Params)
	players = SortPlayers(players, key)
	v.Total = len(players)

	for _, pl := range players {
		if pl.PredictedPts > v.MaxPts {
			v.MaxPts = pl.PredictedPts
		}
	}
	for i, pl := range capRows(players, p.variant.RowCap()) {
		v.Rows = append(v.Rows, PickRow{Rank: i + 1, Player: pl, BarPct: share(pl.PredictedPts, v.MaxPts)})
	}
	v.Empty = len(v.Rows) == 0
	return v
}

// FilterPlayers keeps players matching the position, price ceiling and
// availability filters. The backend applies the same filters; they are
// re-applied over fetched rows.
func FilterPlayers(players []models.Player, f PickFilters) []models.Player {
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if f.Position != "" && p.Position != f.Position {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if f.OnlyAvailable && !p.Available() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortPlayers returns a copy ordered by key, highest first. Ties keep their
// input order and players without a value for key go last.
func SortPlayers(players []models.Player, key SortKey) []models.Player {
	out := append([]models.Player(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := sortValue(out[i], key)
		b, bok := sortValue(out[j], key)
		if aok != bok {
			return aok
		}
		return a > b
	})
	return out
}

func sortValue(p models.Player, key SortKey) (float64, bool) {
	switch key {
	case SortPrice:
		return p.Price, true
	case SortForm:
		return deref(p.AvgPtsLast3)
	case SortXGI:
		return deref(p.AvgXGILast3)
	default:
		return p.PredictedPts, true
	}
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
