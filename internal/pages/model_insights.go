package pages

import (
	"context"
	"sort"

	"fpl-go-dashboard/internal/layout"
	"fpl-go-dashboard/internal/models"
)

// Pipeline stages explained under the importances chart
var PipelineSteps = [][2]string{
	{"Data", "FPL API player history, prices, fixtures and availability"},
	{"Features", "Rolling 3 and 5 GW averages, shifted so no gameweek sees its own result"},
	{"Training", "Gradient boosting on every past player-gameweek"},
	{"Inference", "Latest GW features → predicted pts for next GW"},
}

// ModelInsights shows how the prediction model performs. It fetches once on
// first view and on retry.
type ModelInsights struct {
	backend Backend
	variant Variant
	ctrl    *Controller[struct{}, *models.ModelInsight]
}

func NewModelInsights(backend Backend, variant Variant, observer LoadObserver) *ModelInsights {
	p := &ModelInsights{backend: backend, variant: variant}
	p.ctrl = NewController(string(layout.PageInsights), struct{}{}, p.fetch, observer)
	return p
}

func (p *ModelInsights) fetch(ctx context.Context, _ struct{}) (*models.ModelInsight, error) {
	return p.backend.ModelInsights(ctx)
}

// EnsureLoaded fetches if nothing was fetched yet
func (p *ModelInsights) EnsureLoaded(ctx context.Context) {
	if p.ctrl.State().Status == StatusIdle {
		p.ctrl.Load(ctx, struct{}{})
	}
}

func (p *ModelInsights) Retry(ctx context.Context) { p.ctrl.Retry(ctx) }

// Importance is one bar of the feature importances chart
type Importance struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
	BarPct  float64 `json:"bar_pct"`
}

// ModelInsightsView is the rendered Model Insights page
type ModelInsightsView struct {
	Copy
	Status         Status                   `json:"status"`
	Error          string                   `json:"error,omitempty"`
	Loading        bool                     `json:"loading"`
	HasData        bool                     `json:"has_data"`
	Model          string                   `json:"model,omitempty"`
	MAE            float64                  `json:"mae"`
	BaselineMAE    float64                  `json:"baseline_mae"`
	ImprovementPct float64                  `json:"improvement_pct"`
	TrainingRows   int                      `json:"training_rows"`
	FeatureCount   int                      `json:"feature_count"`
	Importances    []Importance             `json:"importances"`
	PositionStats  []models.PositionStat    `json:"position_stats,omitempty"`
	Comparison     []models.ModelComparison `json:"model_comparison,omitempty"`
	Pipeline       [][2]string              `json:"pipeline"`
}

func (p *ModelInsights) View() ModelInsightsView {
	st := p.ctrl.State()
	v := ModelInsightsView{
		Copy:     p.variant.Copy(layout.PageInsights),
		Status:   st.Status,
		Error:    st.Err,
		Loading:  st.Loading(),
		Pipeline: PipelineSteps,
	}
	if !st.HasData || st.Data == nil {
		return v
	}
	in := st.Data
	v.HasData = true
	v.Model = in.Model
	v.MAE = in.MAE
	v.BaselineMAE = in.BaselineMAE
	v.ImprovementPct = in.ImprovementPct
	v.TrainingRows = in.TrainingRows
	v.FeatureCount = len(in.FeatureImportances)
	v.Importances = capRows(RankImportances(in.FeatureImportances), p.variant.FeatureCap())
	v.Comparison = in.ModelComparison

	v.PositionStats = append([]models.PositionStat(nil), in.PositionStats...)
	sort.SliceStable(v.PositionStats, func(i, j int) bool {
		return v.PositionStats[i].Position.Order() < v.PositionStats[j].Position.Order()
	})
	return v
}

// RankImportances orders features by score, highest first, with ties broken
// by name so the chart is stable.
func RankImportances(scores map[string]float64) []Importance {
	out := make([]Importance, 0, len(scores))
	max := 0.0
	for name, score := range scores {
		out = append(out, Importance{Feature: name, Score: score})
		if score > max {
			max = score
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Feature < out[j].Feature
	})
	for i := range out {
		out[i].BarPct = share(out[i].Score, max)
	}
	return out
}
