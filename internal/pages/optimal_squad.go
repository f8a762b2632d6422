package pages

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"fpl-go-dashboard/internal/layout"
	"fpl-go-dashboard/internal/models"
)

// Budget slider bounds, in £m
var (
	MinBudget     = decimal.NewFromInt(80)
	MaxBudget     = decimal.NewFromInt(100)
	BudgetStep    = decimal.NewFromFloat(0.5)
	DefaultBudget = MaxBudget
)

// Squad rules shown next to the budget slider
var SquadRules = []string{
	"2 GK, 5 DEF, 5 MID, 3 FWD",
	"Max 3 per club",
	"Backup GK ≤ £4m",
	"Starting 11: 1GK, 3-5 DEF, 3-5 MID, 1-3 FWD",
}

// ValidateBudget checks the budget against the slider range
func ValidateBudget(budget float64) error {
	return checkStep("budget", decimal.NewFromFloat(budget), MinBudget, MaxBudget, BudgetStep)
}

// OptimalSquad asks the optimizer for the best squad within a budget. Nothing
// is fetched until the user submits a budget.
type OptimalSquad struct {
	backend Backend
	variant Variant
	ctrl    *Controller[float64, *models.SquadResult]
}

func NewOptimalSquad(backend Backend, variant Variant, observer LoadObserver) *OptimalSquad {
	p := &OptimalSquad{backend: backend, variant: variant}
	p.ctrl = NewController(string(layout.PageOptimal), DefaultBudget.InexactFloat64(), p.fetch, observer)
	return p
}

func (p *OptimalSquad) fetch(ctx context.Context, budget float64) (*models.SquadResult, error) {
	return p.backend.OptimizeSquad(ctx, budget)
}

// Generate runs the optimizer for budget
func (p *OptimalSquad) Generate(ctx context.Context, budget float64) error {
	if err := ValidateBudget(budget); err != nil {
		return err
	}
	p.ctrl.Load(ctx, budget)
	return nil
}

func (p *OptimalSquad) Retry(ctx context.Context) { p.ctrl.Retry(ctx) }

// SquadRow is a player of the optimized squad with its armband
type SquadRow struct {
	models.SquadPlayer
	Captain bool `json:"captain"`
	Vice    bool `json:"vice"`
}

// PositionGroup is the starters of one position
type PositionGroup struct {
	Position models.Position `json:"position"`
	Players  []SquadRow      `json:"players"`
}

// OptimalSquadView is the rendered Optimal Squad page
type OptimalSquadView struct {
	Copy
	Budget          float64         `json:"budget"`
	Rules           []string        `json:"rules"`
	Status          Status          `json:"status"`
	Error           string          `json:"error,omitempty"`
	Loading         bool            `json:"loading"`
	HasResult       bool            `json:"has_result"`
	TotalCost       float64         `json:"total_cost"`
	BudgetRemaining float64         `json:"budget_remaining"`
	PredictedPoints float64         `json:"predicted_points"`
	Formation       string          `json:"formation"`
	Captain         string          `json:"captain"`
	ViceCaptain     string          `json:"vice_captain"`
	Starters        []SquadRow      `json:"starters"`
	Groups          []PositionGroup `json:"groups"`
	Bench           []SquadRow      `json:"bench"`
	Warnings        []string        `json:"warnings,omitempty"`
}

func (p *OptimalSquad) View() OptimalSquadView {
	st := p.ctrl.State()
	v := OptimalSquadView{
		Copy:    p.variant.Copy(layout.PageOptimal),
		Budget:  st.Params,
		Rules:   SquadRules,
		Status:  st.Status,
		Error:   st.Err,
		Loading: st.Loading(),
	}
	if !st.HasData || st.Data == nil {
		return v
	}
	r := st.Data

	captain, vice := r.Leaders()
	v.HasResult = true
	v.TotalCost = r.TotalCost
	v.BudgetRemaining = r.BudgetRemaining
	v.PredictedPoints = r.PredictedPoints
	v.Formation = r.Formation()
	v.Captain, v.ViceCaptain = captain, vice

	for _, pl := range OrderByPosition(r.Starters) {
		v.Starters = append(v.Starters, armband(pl, captain, vice))
	}
	v.Groups = groupByPosition(v.Starters)
	for _, pl := range r.Bench {
		v.Bench = append(v.Bench, SquadRow{SquadPlayer: pl})
	}
	if err := r.Validate(); err != nil {
		v.Warnings = append(v.Warnings, err.Error())
	}
	return v
}

// armband marks exactly the players named as captain and vice-captain
func armband(pl models.SquadPlayer, captain, vice string) SquadRow {
	return SquadRow{
		SquadPlayer: pl,
		Captain:     captain != "" && pl.WebName == captain,
		Vice:        vice != "" && pl.WebName == vice,
	}
}

// OrderByPosition returns a copy ordered GK, DEF, MID, FWD keeping the
// backend's order within each position.
func OrderByPosition(players []models.SquadPlayer) []models.SquadPlayer {
	out := append([]models.SquadPlayer(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position.Order() < out[j].Position.Order()
	})
	return out
}

func groupByPosition(rows []SquadRow) []PositionGroup {
	var groups []PositionGroup
	for _, pos := range models.Positions {
		var g []SquadRow
		for _, r := range rows {
			if r.Position == pos {
				g = append(g, r)
			}
		}
		if len(g) > 0 {
			groups = append(groups, PositionGroup{Position: pos, Players: g})
		}
	}
	return groups
}
