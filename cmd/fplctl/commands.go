package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fpl-go-dashboard/internal/models"
	"fpl-go-dashboard/internal/pages"
	"fpl-go-dashboard/internal/services"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func armband(captain, vice bool) string {
	switch {
	case captain:
		return "(C)"
	case vice:
		return "(V)"
	}
	return ""
}

func picksCommand(a *app) *cobra.Command {
	var (
		position string
		maxPrice float64
		all      bool
		sortKey  string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "picks",
		Short: "List players by predicted points",
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := models.ParsePosition(position)
			if err != nil {
				return err
			}
			key, err := pages.ParseSortKey(sortKey)
			if err != nil {
				return err
			}

			page := pages.NewTopPicks(a.client, pages.VariantClassic, nil)
			page.SetSort(key)
			filters := pages.PickFilters{Position: pos, MaxPrice: maxPrice, OnlyAvailable: !all, Limit: limit}
			if err := page.Load(cmd.Context(), filters); err != nil {
				return err
			}
			v := page.View()
			if v.Status == pages.StatusError {
				return errors.New(v.Error)
			}

			w := table(cmd.OutOrStdout())
			fmt.Fprintln(w, "#\tPLAYER\tTEAM\tPOS\tPRICE\tPREDICTED")
			for _, r := range v.Rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t£%.1fm\t%.2f\n",
					r.Rank, r.Player.WebName, r.Player.TeamName, r.Player.Position, r.Player.Price, r.Player.PredictedPts)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&position, "position", "", "GK, DEF, MID or FWD")
	cmd.Flags().Float64Var(&maxPrice, "max-price", pages.MaxPickPrice.InexactFloat64(), "Price ceiling in £m")
	cmd.Flags().BoolVar(&all, "all", false, "Include unavailable players")
	cmd.Flags().StringVar(&sortKey, "sort", string(pages.SortPredicted), "predicted_pts, price, avg_pts_last3 or avg_xgi_last3")
	cmd.Flags().IntVar(&limit, "limit", pages.DefaultPickLimit, "Rows to fetch")
	return cmd
}

func squadCommand(a *app) *cobra.Command {
	var budget float64
	cmd := &cobra.Command{
		Use:   "squad",
		Short: "Build the optimal 15-man squad for a budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewOptimalSquad(a.client, pages.VariantClassic, nil)
			if err := page.Generate(cmd.Context(), budget); err != nil {
				return err
			}
			v := page.View()
			if !v.HasResult {
				return errors.New(v.Error)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cost £%.1fm  Remaining £%.1fm  Predicted %.1f  Formation %s\n\n",
				v.TotalCost, v.BudgetRemaining, v.PredictedPoints, v.Formation)
			w := table(out)
			fmt.Fprintln(w, "POS\tPLAYER\tTEAM\tPRICE\tPREDICTED\t")
			for _, r := range v.Starters {
				fmt.Fprintf(w, "%s\t%s\t%s\t£%.1fm\t%.2f\t%s\n",
					r.Position, r.WebName, r.TeamName, r.Price, r.PredictedPts, armband(r.Captain, r.Vice))
			}
			for _, r := range v.Bench {
				fmt.Fprintf(w, "%s\t%s\t%s\t£%.1fm\t%.2f\tbench\n", r.Position, r.WebName, r.TeamName, r.Price, r.PredictedPts)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			for _, warning := range v.Warnings {
				fmt.Fprintln(out, "warning:", warning)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&budget, "budget", pages.DefaultBudget.InexactFloat64(), "Budget in £m (80-100, steps of 0.5)")
	return cmd
}

func transfersCommand(a *app) *cobra.Command {
	var (
		freeTransfers int
		hitCost       int
		locks         []int
	)
	cmd := &cobra.Command{
		Use:   "transfers TEAM_ID",
		Short: "Suggest transfers for an FPL team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewTransferPlanner(a.client, pages.VariantClassic, nil)
			if err := page.LoadSquad(cmd.Context(), args[0]); err != nil {
				return err
			}
			if v := page.View(); !v.HasSquad {
				return errors.New(v.Error)
			}

			settings := page.Settings()
			if cmd.Flags().Changed("free-transfers") {
				settings.FreeTransfers = freeTransfers
			}
			settings.HitCost = hitCost
			if err := page.SetSettings(settings); err != nil {
				return err
			}
			for _, id := range locks {
				if _, err := page.ToggleLock(id); err != nil {
					return err
				}
			}
			if err := page.Optimize(cmd.Context()); err != nil {
				return err
			}

			v := page.View()
			if v.Plan == nil {
				return errors.New(v.Error)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "GW%d  Budget £%.1fm  Free transfers %d  Hit cost %d\n",
				v.Gameweek, v.TotalBudget, v.Settings.FreeTransfers, v.Settings.HitCost)
			if len(v.Locked) > 0 {
				names := make([]string, len(v.Locked))
				for i, l := range v.Locked {
					names[i] = l.Name
				}
				fmt.Fprintf(out, "Locked: %s\n", strings.Join(names, ", "))
			}

			plan := v.Plan
			if plan.NoChange {
				fmt.Fprintln(out, "No transfers suggested. Roll the transfer.")
				return nil
			}
			fmt.Fprintf(out, "Transfers %d  Hits %d (-%d)  Net gain %+.1f\n\n",
				plan.TransfersMade, plan.HitsTaken, plan.PointsHit, plan.NetPtsGain)
			w := table(out)
			fmt.Fprintln(w, "OUT\t\tIN\t")
			for i := 0; i < len(plan.TransfersOut) || i < len(plan.TransfersIn); i++ {
				var o, n string
				if i < len(plan.TransfersOut) {
					o = fmt.Sprintf("%s\t£%.1fm", plan.TransfersOut[i].WebName, plan.TransfersOut[i].Price)
				} else {
					o = "\t"
				}
				if i < len(plan.TransfersIn) {
					n = fmt.Sprintf("%s\t£%.1fm", plan.TransfersIn[i].WebName, plan.TransfersIn[i].Price)
				} else {
					n = "\t"
				}
				fmt.Fprintf(w, "%s\t%s\n", o, n)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&freeTransfers, "free-transfers", pages.MinFreeTransfers, "Free transfers available (defaults to the squad's)")
	cmd.Flags().IntVar(&hitCost, "hit-cost", pages.DefaultHitCost, "Points deducted per extra transfer")
	cmd.Flags().IntSliceVar(&locks, "lock", nil, "Player IDs to keep")
	return cmd
}

func insightsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show model accuracy and feature importances",
		RunE: func(cmd *cobra.Command, args []string) error {
			page := pages.NewModelInsights(a.client, pages.VariantClassic, nil)
			page.EnsureLoaded(cmd.Context())
			v := page.View()
			if !v.HasData {
				return errors.New(v.Error)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "MAE %.3f (baseline %.3f, %.1f%% better) on %d rows\n\n",
				v.MAE, v.BaselineMAE, v.ImprovementPct, v.TrainingRows)
			w := table(out)
			fmt.Fprintln(w, "FEATURE\tIMPORTANCE")
			for _, imp := range v.Importances {
				fmt.Fprintf(w, "%s\t%.4f\n", imp.Feature, imp.Score)
			}
			return w.Flush()
		},
	}
}

func newsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Show FPL news, falling back to bundled headlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			feeds := services.NewFeedService(a.client, nil, nil, nil)
			feed := feeds.News(cmd.Context())

			out := cmd.OutOrStdout()
			if feed.Degraded() {
				fmt.Fprintf(out, "(%s data, backend unavailable)\n", feed.Source)
			}
			w := table(out)
			for _, n := range feed.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", n.Category, n.Headline, n.Time)
			}
			return w.Flush()
		},
	}
}

func gameweekCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gw",
		Short: "Show the current gameweek",
		RunE: func(cmd *cobra.Command, args []string) error {
			gameweeks := services.NewGameweekService(a.client, a.cfg.GameweekTimeout)
			if _, ok := gameweeks.Current(cmd.Context()); !ok {
				return errors.New("current gameweek unavailable")
			}
			fmt.Fprintln(cmd.OutOrStdout(), gameweeks.Labels(cmd.Context()).Long)
			return nil
		},
	}
}
