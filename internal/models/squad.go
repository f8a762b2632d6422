package models

import (
	"fmt"
	"sort"
	"strings"
)

// Squad sizes produced by the optimizer
const (
	StarterCount = 11
	BenchCount   = 4
	SquadSize    = StarterCount + BenchCount
)

// Limit is an inclusive count range for one position
type Limit struct {
	Min int
	Max int
}

// StartingLimits are the formation bounds of a starting XI
var StartingLimits = map[Position]Limit{
	GK:  {1, 1},
	DEF: {3, 5},
	MID: {3, 5},
	FWD: {1, 3},
}

// SquadLimits are the position quotas of a full 15-man squad
var SquadLimits = map[Position]Limit{
	GK:  {2, 2},
	DEF: {5, 5},
	MID: {5, 5},
	FWD: {3, 3},
}

// SquadPlayer is a player inside an optimized squad
type SquadPlayer struct {
	ID           int      `json:"player_id,omitempty"`
	WebName      string   `json:"web_name"`
	TeamName     string   `json:"team_name"`
	Position     Position `json:"position"`
	Price        float64  `json:"price"`
	PredictedPts float64  `json:"predicted_pts"`
	IsStarter    Flag     `json:"is_starter"`
}

// SquadResult is the response of POST /squad/optimize
type SquadResult struct {
	TotalCost       float64       `json:"total_cost"`
	PredictedPoints float64       `json:"predicted_points"`
	BudgetRemaining float64       `json:"budget_remaining"`
	Starters        []SquadPlayer `json:"starters"`
	Bench           []SquadPlayer `json:"bench"`
	Captain         string        `json:"captain,omitempty"`
	ViceCaptain     string        `json:"vice_captain,omitempty"`
}

// Leaders returns the captain and vice-captain. Names supplied by the backend
// win; missing ones are filled with the highest predicted starters.
func (r *SquadResult) Leaders() (captain, vice string) {
	captain, vice = r.Captain, r.ViceCaptain
	if captain != "" && vice != "" {
		return captain, vice
	}
	pts := make([]float64, len(r.Starters))
	names := make([]string, len(r.Starters))
	for i, p := range r.Starters {
		pts[i], names[i] = p.PredictedPts, p.WebName
	}
	return pickLeaders(captain, vice, names, pts)
}

// Formation renders the outfield shape of the starters, e.g. "4-4-2".
func (r *SquadResult) Formation() string {
	counts := CountPositions(r.Starters)
	return fmt.Sprintf("%d-%d-%d", counts[DEF], counts[MID], counts[FWD])
}

// Validate checks the starter and bench counts, the formation limits and,
// for a full squad, the position quotas.
func (r *SquadResult) Validate() error {
	var problems []string
	if len(r.Starters) != StarterCount {
		problems = append(problems, fmt.Sprintf("expected %d starters, got %d", StarterCount, len(r.Starters)))
	}
	if len(r.Bench) != BenchCount {
		problems = append(problems, fmt.Sprintf("expected %d bench players, got %d", BenchCount, len(r.Bench)))
	}
	counts := CountPositions(r.Starters)
	for _, pos := range Positions {
		lim := StartingLimits[pos]
		if n := counts[pos]; n < lim.Min || n > lim.Max {
			problems = append(problems, fmt.Sprintf("%s starters %d outside %d-%d", pos, n, lim.Min, lim.Max))
		}
	}
	// quotas apply to a complete squad only
	if len(r.Starters)+len(r.Bench) == SquadSize {
		squad := CountPositions(append(append([]SquadPlayer{}, r.Starters...), r.Bench...))
		for _, pos := range Positions {
			lim := SquadLimits[pos]
			if n := squad[pos]; n < lim.Min || n > lim.Max {
				problems = append(problems, fmt.Sprintf("squad has %d %s, needs %d", n, pos, lim.Min))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid squad: %s", strings.Join(problems, "; "))
	}
	return nil
}

// CountPositions tallies players per position
func CountPositions(players []SquadPlayer) map[Position]int {
	counts := make(map[Position]int, len(Positions))
	for _, p := range players {
		counts[p.Position]++
	}
	return counts
}

// UserSquad is a manager's live squad from GET /transfers/squad/{teamId}
type UserSquad struct {
	Gameweek      int      `json:"gameweek"`
	ITB           float64  `json:"itb"`
	FreeTransfers int      `json:"free_transfers"`
	Players       []Player `json:"players"`
}

// TransferRequest is the body of POST /transfers/optimize
type TransferRequest struct {
	TeamID          int      `json:"team_id"`
	FreeTransfers   int      `json:"free_transfers"`
	HitCost         int      `json:"hit_cost"`
	LockedPlayerIDs []int    `json:"locked_player_ids"`
	LockedPlayers   []string `json:"locked_players"`
}

// TransferPlayer is a player in a transfer plan
type TransferPlayer struct {
	ID           int      `json:"player_id"`
	WebName      string   `json:"web_name"`
	TeamName     string   `json:"team_name"`
	Position     Position `json:"position"`
	Price        float64  `json:"price"`
	PredictedPts float64  `json:"predicted_pts"`
	InCurrent    Flag     `json:"in_current,omitempty"`
}

// TransferResult is the response of POST /transfers/optimize
type TransferResult struct {
	TransfersMade int              `json:"transfers_made"`
	HitsTaken     int              `json:"hits_taken"`
	PointsHit     int              `json:"points_hit"`
	NetPtsGain    float64          `json:"net_pts_gain"`
	TransfersIn   []TransferPlayer `json:"transfers_in"`
	TransfersOut  []TransferPlayer `json:"transfers_out"`
	NewSquad      []TransferPlayer `json:"new_squad"`
	Gameweek      int              `json:"gameweek,omitempty"`
	ITB           float64          `json:"itb,omitempty"`
	Captain       string           `json:"captain,omitempty"`
	ViceCaptain   string           `json:"vice_captain,omitempty"`
}

// Leaders returns the captain and vice-captain of the new squad, deriving
// missing ones from the highest predicted players.
func (r *TransferResult) Leaders() (captain, vice string) {
	captain, vice = r.Captain, r.ViceCaptain
	if captain != "" && vice != "" {
		return captain, vice
	}
	pts := make([]float64, len(r.NewSquad))
	names := make([]string, len(r.NewSquad))
	for i, p := range r.NewSquad {
		pts[i], names[i] = p.PredictedPts, p.WebName
	}
	return pickLeaders(captain, vice, names, pts)
}

func pickLeaders(captain, vice string, names []string, pts []float64) (string, string) {
	idx := make([]int, len(names))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return pts[idx[a]] > pts[idx[b]] })
	for _, i := range idx {
		name := names[i]
		switch {
		case captain == "" && name != vice:
			captain = name
		case vice == "" && name != captain:
			vice = name
		}
		if captain != "" && vice != "" {
			break
		}
	}
	return captain, vice
}
