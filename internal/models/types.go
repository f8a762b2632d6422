package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position is a player's squad position
type Position string

const (
	GK  Position = "GK"
	DEF Position = "DEF"
	MID Position = "MID"
	FWD Position = "FWD"
)

// Positions lists every position in pitch order
var Positions = []Position{GK, DEF, MID, FWD}

// ParsePosition accepts any case. "ALL" and "" mean no position filter and
// return an empty Position.
func ParsePosition(s string) (Position, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	switch v {
	case "", "ALL":
		return "", nil
	case string(GK), string(DEF), string(MID), string(FWD):
		return Position(v), nil
	}
	return "", fmt.Errorf("unknown position %q", s)
}

func (p Position) Valid() bool {
	switch p {
	case GK, DEF, MID, FWD:
		return true
	}
	return false
}

// Order returns the pitch order index (GK first). Unknown positions sort last.
func (p Position) Order() int {
	for i, pos := range Positions {
		if pos == p {
			return i
		}
	}
	return len(Positions)
}

// Player is a prediction record from GET /players
type Player struct {
	ID           int      `json:"player_id"`
	WebName      string   `json:"web_name"`
	TeamName     string   `json:"team_name"`
	Position     Position `json:"position"`
	Price        float64  `json:"price"`
	PredictedPts float64  `json:"predicted_pts"`
	Status       string   `json:"status,omitempty"`

	// Rolling features, only sent by some backend builds
	AvgPtsLast3          *float64 `json:"avg_pts_last3,omitempty"`
	AvgXGILast3          *float64 `json:"avg_xgi_last3,omitempty"`
	AvgMinutesLast3      *float64 `json:"avg_minutes_last3,omitempty"`
	AvgFixtureDifficulty *float64 `json:"avg_fixture_difficulty,omitempty"`
}

func (p Player) Validate() error {
	if !p.Position.Valid() {
		return fmt.Errorf("player %d (%s): invalid position %q", p.ID, p.WebName, p.Position)
	}
	if p.Price < 0 {
		return fmt.Errorf("player %d (%s): negative price %.1f", p.ID, p.WebName, p.Price)
	}
	if p.PredictedPts < 0 {
		return fmt.Errorf("player %d (%s): negative predicted points %.2f", p.ID, p.WebName, p.PredictedPts)
	}
	return nil
}

// Available reports whether the FPL status flag marks the player as available.
// Records without a status are treated as available.
func (p Player) Available() bool {
	return p.Status == "" || p.Status == "a"
}

// PositionStat aggregates predictions for one position
type PositionStat struct {
	Position    Position `json:"position"`
	PlayerCount int      `json:"player_count"`
	AvgPts      float64  `json:"avg_pts"`
	MaxPts      float64  `json:"max_pts"`
}

// ModelComparison is one row of the model benchmark table
type ModelComparison struct {
	Model       string  `json:"model"`
	MAE         float64 `json:"mae"`
	Improvement string  `json:"improvement"`
}

// ModelInsight describes the prediction model
type ModelInsight struct {
	Model              string             `json:"model,omitempty"`
	MAE                float64            `json:"mae"`
	BaselineMAE        float64            `json:"baseline_mae"`
	ImprovementPct     float64            `json:"improvement_pct"`
	TrainingRows       int                `json:"training_rows"`
	FeatureImportances map[string]float64 `json:"feature_importances"`
	PositionStats      []PositionStat     `json:"position_stats,omitempty"`
	ModelComparison    []ModelComparison  `json:"model_comparison,omitempty"`
}

// Flag decodes a JSON boolean that the backend may also send as 0/1.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch strings.TrimSpace(string(b)) {
	case "true", "1", "1.0":
		*f = true
	case "false", "0", "0.0", "null":
		*f = false
	default:
		return fmt.Errorf("invalid flag value %s", string(b))
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
