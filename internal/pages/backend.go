package pages

import (
	"context"

	"fpl-go-dashboard/internal/models"
	"fpl-go-dashboard/pkg/fplapi"
)

// Backend is the part of the API client the pages call
type Backend interface {
	ListPlayers(ctx context.Context, filters fplapi.PlayerFilters) ([]models.Player, error)
	ModelInsights(ctx context.Context) (*models.ModelInsight, error)
	OptimizeSquad(ctx context.Context, budget float64) (*models.SquadResult, error)
	FetchSquad(ctx context.Context, teamID string) (*models.UserSquad, error)
	OptimizeTransfers(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error)
}

var _ Backend = (*fplapi.Client)(nil)

// share returns v as a percentage of max, for bar widths
func share(v, max float64) float64 {
	if max <= 0 || v <= 0 {
		return 0
	}
	pct := v / max * 100
	if pct > 100 {
		return 100
	}
	return pct
}
