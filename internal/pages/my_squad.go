package pages

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fpl-go-dashboard/internal/layout"
	"fpl-go-dashboard/internal/models"
	"fpl-go-dashboard/internal/services"
)

// PitchLine is one horizontal line of players on the pitch
type PitchLine struct {
	Position models.Position      `json:"position"`
	Players  []models.PitchPlayer `json:"players"`
}

// MySquadView is the rendered demo squad
type MySquadView struct {
	Copy
	Lines     []PitchLine          `json:"lines"`
	Bench     []models.PitchPlayer `json:"bench"`
	Formation string               `json:"formation"`
	GWPoints  int                  `json:"gw_points"`
	Value     float64              `json:"value"`
	Captain   string               `json:"captain"`
	Injured   []string             `json:"injured,omitempty"`
}

// MySquad renders the bundled demo squad. It makes no backend calls.
type MySquad struct {
	variant Variant
}

func NewMySquad(variant Variant) *MySquad {
	return &MySquad{variant: variant}
}

func (p *MySquad) View() MySquadView {
	squad := services.DemoSquad()
	v := MySquadView{Copy: p.variant.Copy(layout.PageSquad)}

	value := decimal.Zero
	counts := map[models.Position]int{}
	for _, pl := range squad {
		value = value.Add(decimal.NewFromFloat(pl.Price))
		if pl.Injured {
			v.Injured = append(v.Injured, pl.Name)
		}
		if !pl.Starter {
			v.Bench = append(v.Bench, pl)
			continue
		}
		counts[pl.Position]++
		points := pl.GWPoints
		if pl.Captain {
			v.Captain = pl.Name
			points *= 2
		}
		v.GWPoints += points
	}
	v.Value = value.Round(1).InexactFloat64()

	for _, pos := range models.Positions {
		var line []models.PitchPlayer
		for _, pl := range squad {
			if pl.Starter && pl.Position == pos {
				line = append(line, pl)
			}
		}
		if len(line) > 0 {
			v.Lines = append(v.Lines, PitchLine{Position: pos, Players: line})
		}
	}
	v.Formation = fmt.Sprintf("%d-%d-%d", counts[models.DEF], counts[models.MID], counts[models.FWD])
	return v
}
