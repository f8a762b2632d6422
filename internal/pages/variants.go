package pages

import (
	"fmt"
	"strings"

	"fpl-go-dashboard/internal/layout"
)

// Variant is a cosmetic skin of the pages. Every variant shares the same
// controllers and only changes copy and how many rows are shown.
type Variant string

const (
	VariantClassic   Variant = "classic"
	VariantBroadcast Variant = "broadcast"
)

// ParseVariant resolves a variant name; empty means classic
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return VariantClassic, nil
	case VariantClassic, VariantBroadcast:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view variant %q", s)
	}
}

// Copy is the heading text of a page
type Copy struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

var copies = map[Variant]map[layout.Page]Copy{
	VariantClassic: {
		layout.PageHome:      {"Gameweek Hub", "Your weekly FPL command centre"},
		layout.PageSquad:     {"My Squad", "Demo team on the pitch"},
		layout.PagePicks:     {"Top Picks", "ML-predicted points for next gameweek"},
		layout.PageOptimal:   {"Optimal Squad", "Best 15-man squad the optimizer can build within budget"},
		layout.PageTransfers: {"Transfer Planner", "Hit-aware transfer suggestions for your team"},
		layout.PageInsights:  {"Model Insights", "How the prediction model performs and what drives it"},
	},
	VariantBroadcast: {
		layout.PageHome:      {"MATCHDAY CENTRE", "Live from the prediction desk"},
		layout.PageSquad:     {"THE XI", "Tonight's line-up"},
		layout.PagePicks:     {"PLAYERS TO WATCH", "Projected points, ranked"},
		layout.PageOptimal:   {"DREAM TEAM", "The optimizer's pick of the round"},
		layout.PageTransfers: {"TRANSFER WINDOW", "Who's in, who's out"},
		layout.PageInsights:  {"THE NUMBERS", "Inside the model"},
	},
}

// Copy returns the heading of page in this variant
func (v Variant) Copy(page layout.Page) Copy {
	if c, ok := copies[v][page]; ok {
		return c
	}
	return copies[VariantClassic][page]
}

// RowCap is the most rows a list view shows; 0 means no cap.
func (v Variant) RowCap() int {
	if v == VariantBroadcast {
		return 20
	}
	return 0
}

// FeatureCap is the most feature importances the insights page shows
func (v Variant) FeatureCap() int {
	if v == VariantBroadcast {
		return 8
	}
	return 0
}

func capRows[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
