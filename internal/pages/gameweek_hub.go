package pages

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"fpl-go-dashboard/internal/layout"
	"fpl-go-dashboard/internal/models"
	"fpl-go-dashboard/pkg/fplapi"
)

// HubData is what the hub reads from the backend. Either part may be missing.
type HubData struct {
	TopPlayer *models.Player
	Insight   *models.ModelInsight
}

// HubCard links the hub to another page
type HubCard struct {
	Page        layout.Page `json:"page"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
}

var hubCards = []HubCard{
	{layout.PagePicks, "Top Picks", "Ranked predictions for every player this GW"},
	{layout.PageOptimal, "Optimal Squad", "Best 15 within your budget"},
	{layout.PageTransfers, "Transfers", "Hit-aware transfer recommendations for your squad"},
	{layout.PageInsights, "Model Insights", "Feature importances, validation and how it works"},
}

// GameweekHub is the landing page: headline numbers and links to the other
// pages. Its reads are best effort; a failed read shows a placeholder.
type GameweekHub struct {
	backend Backend
	variant Variant
	ctrl    *Controller[struct{}, HubData]
}

func NewGameweekHub(backend Backend, variant Variant, observer LoadObserver) *GameweekHub {
	p := &GameweekHub{backend: backend, variant: variant}
	p.ctrl = NewController(string(layout.PageHome), struct{}{}, p.fetch, observer)
	return p
}

// fetch reads the top available player and the model insights in parallel.
// Errors are dropped so the hub always settles in success.
func (p *GameweekHub) fetch(ctx context.Context, _ struct{}) (HubData, error) {
	var data HubData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		players, err := p.backend.ListPlayers(gctx, fplapi.PlayerFilters{
			OnlyAvailable: fplapi.Bool(true),
			Limit:         fplapi.Int(1),
		})
		if err == nil && len(players) > 0 {
			top := players[0]
			data.TopPlayer = &top
		}
		return nil
	})
	g.Go(func() error {
		insight, err := p.backend.ModelInsights(gctx)
		if err == nil {
			data.Insight = insight
		}
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return HubData{}, err
	}
	return data, nil
}

// EnsureLoaded fetches if nothing was fetched yet
func (p *GameweekHub) EnsureLoaded(ctx context.Context) {
	if p.ctrl.State().Status == StatusIdle {
		p.ctrl.Load(ctx, struct{}{})
	}
}

func (p *GameweekHub) Retry(ctx context.Context) { p.ctrl.Retry(ctx) }

// HubStat is one headline number
type HubStat struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Sub   string `json:"sub"`
}

// GameweekHubView is the rendered hub
type GameweekHubView struct {
	Copy
	Loading bool      `json:"loading"`
	Stats   []HubStat `json:"stats"`
	Cards   []HubCard `json:"cards"`
}

const placeholder = "—"

func (p *GameweekHub) View() GameweekHubView {
	st := p.ctrl.State()
	v := GameweekHubView{
		Copy:    p.variant.Copy(layout.PageHome),
		Loading: st.Loading() || st.Status == StatusIdle,
		Cards:   hubCards,
	}

	top := HubStat{Label: "Top Pick This GW", Value: placeholder, Sub: "predictions unavailable"}
	mae := HubStat{Label: "Model MAE", Value: placeholder, Sub: "model unavailable"}
	rows := HubStat{Label: "Training Rows", Value: placeholder, Sub: "gameweeks of history"}

	if d := st.Data; st.HasData {
		if d.TopPlayer != nil {
			top.Value = d.TopPlayer.WebName
			top.Sub = fmt.Sprintf("%.2f predicted pts", d.TopPlayer.PredictedPts)
		}
		if d.Insight != nil {
			mae.Value = fmt.Sprintf("%.3f", d.Insight.MAE)
			mae.Sub = fmt.Sprintf("%.1f%% better than baseline", d.Insight.ImprovementPct)
			rows.Value = groupThousands(d.Insight.TrainingRows)
		}
	}
	v.Stats = []HubStat{top, mae, rows}
	return v
}

var numbers = message.NewPrinter(language.English)

// groupThousands renders n with comma separators, e.g. 20,703
func groupThousands(n int) string {
	return numbers.Sprintf("%d", n)
}
