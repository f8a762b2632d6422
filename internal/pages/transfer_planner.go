package pages

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"fpl-go-dashboard/internal/layout"
	"fpl-go-dashboard/internal/models"
)

// Transfer settings bounds
const (
	MinFreeTransfers = 1
	MaxFreeTransfers = 5
	DefaultHitCost   = 4
)

var (
	// ErrNoSquad is returned by Optimize before a squad has been loaded
	ErrNoSquad = errors.New("load your squad before optimizing transfers")
	// ErrSquadLoading is returned by Optimize and ToggleLock while the squad is being fetched
	ErrSquadLoading = errors.New("your squad is still loading")
)

// Checklist shown next to the optimize button
var TransferRules = []string{
	"Budget = sell value + ITB",
	"Transfers in = transfers out",
	"Hits deducted from score",
	"Position limits enforced",
}

// ValidateTeamID accepts a non-empty string of digits
func ValidateTeamID(id string) error {
	if id == "" {
		return fmt.Errorf("enter your FPL team ID")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return fmt.Errorf("team ID must contain digits only, got %q", id)
		}
	}
	if _, err := strconv.Atoi(id); err != nil {
		return fmt.Errorf("team ID %q is out of range", id)
	}
	return nil
}

// TransferSettings are the optimizer inputs besides the squad and locks
type TransferSettings struct {
	FreeTransfers int `json:"free_transfers"`
	HitCost       int `json:"hit_cost"`
}

func (s TransferSettings) Validate() error {
	if s.FreeTransfers < MinFreeTransfers || s.FreeTransfers > MaxFreeTransfers {
		return fmt.Errorf("free transfers must be between %d and %d", MinFreeTransfers, MaxFreeTransfers)
	}
	if s.HitCost < 0 {
		return fmt.Errorf("hit cost must not be negative")
	}
	return nil
}

// TransferPlanner loads a manager's squad, lets them lock players and asks
// the optimizer for a transfer plan. Squad and plan are two separate loads.
type TransferPlanner struct {
	backend Backend
	variant Variant
	squad   *Controller[string, *models.UserSquad]
	plan    *Controller[models.TransferRequest, *models.TransferResult]

	mu       sync.Mutex
	settings TransferSettings
	locks    *LockSet
}

func NewTransferPlanner(backend Backend, variant Variant, observer LoadObserver) *TransferPlanner {
	p := &TransferPlanner{
		backend:  backend,
		variant:  variant,
		settings: TransferSettings{FreeTransfers: MinFreeTransfers, HitCost: DefaultHitCost},
		locks:    NewLockSet(),
	}
	name := string(layout.PageTransfers)
	p.squad = NewController(name+"_squad", "", p.fetchSquad, observer)
	p.plan = NewController(name+"_plan", models.TransferRequest{}, p.fetchPlan, observer)
	return p
}

func (p *TransferPlanner) fetchSquad(ctx context.Context, teamID string) (*models.UserSquad, error) {
	return p.backend.FetchSquad(ctx, teamID)
}

func (p *TransferPlanner) fetchPlan(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error) {
	return p.backend.OptimizeTransfers(ctx, req)
}

// LoadSquad fetches the squad of teamID. The previous squad, plan and locks
// are dropped first, so a failed fetch leaves nothing to optimize.
func (p *TransferPlanner) LoadSquad(ctx context.Context, teamID string) error {
	teamID = strings.TrimSpace(teamID)
	if err := ValidateTeamID(teamID); err != nil {
		return err
	}

	// locks and the squad they point into change together
	p.mu.Lock()
	p.locks.Clear()
	p.squad.Reset(teamID)
	p.mu.Unlock()
	p.plan.Reset(models.TransferRequest{})

	st := p.squad.Load(ctx, teamID)
	if st.Status == StatusSuccess && st.Params == teamID && st.Data != nil {
		p.mu.Lock()
		if ft := st.Data.FreeTransfers; ft >= MinFreeTransfers && ft <= MaxFreeTransfers {
			p.settings.FreeTransfers = ft
		} else {
			p.settings.FreeTransfers = MinFreeTransfers
		}
		p.mu.Unlock()
	}
	return nil
}

// SetSettings changes free transfers and hit cost
func (p *TransferPlanner) SetSettings(s TransferSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	p.settings = s
	p.mu.Unlock()
	return nil
}

func (p *TransferPlanner) Settings() TransferSettings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// ToggleLock locks or unlocks a player of the loaded squad and reports
// whether the player is locked afterwards.
func (p *TransferPlanner) ToggleLock(playerID int) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := p.squad.State()
	if st.Loading() {
		return false, ErrSquadLoading
	}
	if !st.HasData || st.Data == nil {
		return false, ErrNoSquad
	}
	for _, pl := range st.Data.Players {
		if pl.ID == playerID {
			return p.locks.Toggle(pl.ID, pl.WebName), nil
		}
	}
	return false, fmt.Errorf("player %d is not in your squad", playerID)
}

// Optimize asks for a transfer plan for the loaded squad
func (p *TransferPlanner) Optimize(ctx context.Context) error {
	req, err := p.request()
	if err != nil {
		return err
	}
	p.plan.Load(ctx, req)
	return nil
}

func (p *TransferPlanner) request() (models.TransferRequest, error) {
	st := p.squad.State()
	if st.Loading() {
		return models.TransferRequest{}, ErrSquadLoading
	}
	if !st.HasData || st.Data == nil {
		return models.TransferRequest{}, ErrNoSquad
	}
	teamID, err := strconv.Atoi(st.Params)
	if err != nil {
		return models.TransferRequest{}, fmt.Errorf("invalid team ID %q: %w", st.Params, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return models.TransferRequest{
		TeamID:          teamID,
		FreeTransfers:   p.settings.FreeTransfers,
		HitCost:         p.settings.HitCost,
		LockedPlayerIDs: p.locks.IDs(),
		LockedPlayers:   p.locks.Names(),
	}, nil
}

// RetrySquad refetches the last team ID
func (p *TransferPlanner) RetrySquad(ctx context.Context) error {
	return p.LoadSquad(ctx, p.squad.State().Params)
}

// Retry repeats the plan request if it failed, otherwise the squad fetch
func (p *TransferPlanner) Retry(ctx context.Context) error {
	if p.plan.State().Status == StatusError {
		p.plan.Retry(ctx)
		return nil
	}
	return p.RetrySquad(ctx)
}

// OwnedPlayer is a row of the loaded squad
type OwnedPlayer struct {
	models.Player
	Locked bool `json:"locked"`
}

// LockedPlayer is a chip in the locked players list
type LockedPlayer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PlanPlayer is a row of the suggested squad
type PlanPlayer struct {
	models.TransferPlayer
	Kept    bool `json:"kept"`
	Captain bool `json:"captain"`
	Vice    bool `json:"vice"`
}

// PlanView is the rendered transfer plan
type PlanView struct {
	TransfersMade int                     `json:"transfers_made"`
	HitsTaken     int                     `json:"hits_taken"`
	PointsHit     int                     `json:"points_hit"`
	NetPtsGain    float64                 `json:"net_pts_gain"`
	Captain       string                  `json:"captain"`
	ViceCaptain   string                  `json:"vice_captain"`
	TransfersIn   []models.TransferPlayer `json:"transfers_in"`
	TransfersOut  []models.TransferPlayer `json:"transfers_out"`
	NewSquad      []PlanPlayer            `json:"new_squad"`
	NoChange      bool                    `json:"no_change"`
}

// TransferPlannerView is the rendered Transfer Planner page
type TransferPlannerView struct {
	Copy
	TeamID       string           `json:"team_id"`
	Rules        []string         `json:"rules"`
	Error        string           `json:"error,omitempty"`
	SquadStatus  Status           `json:"squad_status"`
	SquadLoading bool             `json:"squad_loading"`
	HasSquad     bool             `json:"has_squad"`
	Gameweek     int              `json:"gameweek"`
	ITB          float64          `json:"itb"`
	SquadFree    int              `json:"squad_free_transfers"`
	SquadValue   float64          `json:"squad_value"`
	TotalBudget  float64          `json:"total_budget"`
	Players      []OwnedPlayer    `json:"players"`
	Locked       []LockedPlayer   `json:"locked"`
	Settings     TransferSettings `json:"settings"`
	CanOptimize  bool             `json:"can_optimize"`
	PlanStatus   Status           `json:"plan_status"`
	PlanLoading  bool             `json:"plan_loading"`
	Plan         *PlanView        `json:"plan,omitempty"`
}

func (p *TransferPlanner) View() TransferPlannerView {
	sq := p.squad.State()
	pl := p.plan.State()

	p.mu.Lock()
	settings := p.settings
	lockedIDs, lockedNames := p.locks.IDs(), p.locks.Names()
	p.mu.Unlock()

	v := TransferPlannerView{
		Copy:         p.variant.Copy(layout.PageTransfers),
		TeamID:       sq.Params,
		Rules:        TransferRules,
		SquadStatus:  sq.Status,
		SquadLoading: sq.Loading(),
		Settings:     settings,
		PlanStatus:   pl.Status,
		PlanLoading:  pl.Loading(),
	}
	switch {
	case pl.Status == StatusError:
		v.Error = pl.Err
	case sq.Status == StatusError:
		v.Error = sq.Err
	}
	for i, id := range lockedIDs {
		v.Locked = append(v.Locked, LockedPlayer{ID: id, Name: lockedNames[i]})
	}

	if sq.HasData && sq.Data != nil {
		s := sq.Data
		locked := make(map[int]bool, len(lockedIDs))
		for _, id := range lockedIDs {
			locked[id] = true
		}
		v.HasSquad = true
		v.CanOptimize = !sq.Loading() && !pl.Loading()
		v.Gameweek, v.ITB, v.SquadFree = s.Gameweek, s.ITB, s.FreeTransfers

		value := SquadValue(s.Players)
		v.SquadValue = value.InexactFloat64()
		v.TotalBudget = value.Add(decimal.NewFromFloat(s.ITB)).Round(1).InexactFloat64()

		players := append([]models.Player(nil), s.Players...)
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].Position.Order() < players[j].Position.Order()
		})
		for _, player := range players {
			v.Players = append(v.Players, OwnedPlayer{Player: player, Locked: locked[player.ID]})
		}
	}

	if pl.HasData && pl.Data != nil {
		v.Plan = planView(pl.Data)
	}
	return v
}

// SquadValue sums the players' prices without float drift
func SquadValue(players []models.Player) decimal.Decimal {
	total := decimal.Zero
	for _, p := range players {
		total = total.Add(decimal.NewFromFloat(p.Price))
	}
	return total.Round(1)
}

func planView(r *models.TransferResult) *PlanView {
	captain, vice := r.Leaders()
	pv := &PlanView{
		TransfersMade: r.TransfersMade,
		HitsTaken:     r.HitsTaken,
		PointsHit:     r.PointsHit,
		NetPtsGain:    r.NetPtsGain,
		Captain:       captain,
		ViceCaptain:   vice,
		TransfersIn:   r.TransfersIn,
		TransfersOut:  r.TransfersOut,
		NoChange:      r.TransfersMade == 0,
	}
	for _, p := range SortNewSquad(r.NewSquad) {
		pv.NewSquad = append(pv.NewSquad, PlanPlayer{
			TransferPlayer: p,
			Kept:           bool(p.InCurrent),
			Captain:        captain != "" && p.WebName == captain,
			Vice:           vice != "" && p.WebName == vice,
		})
	}
	return pv
}

// SortNewSquad orders a suggested squad GK, DEF, MID, FWD and by predicted
// points within each position.
func SortNewSquad(players []models.TransferPlayer) []models.TransferPlayer {
	out := append([]models.TransferPlayer(nil), players...)
	sort.SliceStable(out, func(i, j int) bool {
		if oi, oj := out[i].Position.Order(), out[j].Position.Order(); oi != oj {
			return oi < oj
		}
		return out[i].PredictedPts > out[j].PredictedPts
	})
	return out
}
