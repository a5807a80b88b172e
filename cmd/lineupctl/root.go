package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kickoffxi/lineup-api/internal/app"
	"github.com/kickoffxi/lineup-api/internal/cache"
	"github.com/kickoffxi/lineup-api/internal/config"
	"github.com/kickoffxi/lineup-api/internal/logic"
	"github.com/kickoffxi/lineup-api/internal/models"
	"github.com/kickoffxi/lineup-api/internal/provider"
)

type cliState struct {
	verbose bool
	asJSON  bool
	service logic.PredictionService
	teams   *provider.Directory
}

func newRootCmd(ctx context.Context) *cobra.Command {
	state := &cliState{}
	root := &cobra.Command{
		Use:           "lineupctl",
		Short:         "Predict football lineups from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.init()
		},
	}
	root.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "log provider and news activity to stderr")
	root.PersistentFlags().BoolVar(&state.asJSON, "json", false, "print raw JSON")

	root.AddCommand(predictCmd(ctx, state))
	root.AddCommand(injuriesCmd(ctx, state))
	root.AddCommand(newsCmd(ctx, state))
	root.AddCommand(teamsCmd(state))
	return root
}

func (s *cliState) init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if s.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}

	core, err := app.NewCore(cfg, logger)
	if err != nil {
		return err
	}
	s.teams = core.Directory
	s.service = core.Service(cache.NewMemoryCache(0), nil)
	return nil
}

func (s *cliState) print(w io.Writer, v any, text func(io.Writer)) error {
	if s.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func predictCmd(ctx context.Context, state *cliState) *cobra.Command {
	var (
		fixture    int
		noNews     bool
		noInjuries bool
		noForm     bool
		noHistory  bool
	)
	cmd := &cobra.Command{
		Use:   "predict <team>",
		Short: "Predict the starting XI for a team's next match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.NewPredictionRequest(strings.Join(args, " "))
			req.FixtureID = fixture
			req.UseNews = !noNews
			req.UseInjuries = !noInjuries
			req.UseForm = !noForm
			req.UseHistorical = !noHistory
			req.CreatedBy = "cli"

			pred, err := state.service.PredictLineup(ctx, req)
			if err != nil {
				return err
			}
			return state.print(cmd.OutOrStdout(), pred, func(w io.Writer) { writePrediction(w, pred) })
		},
	}
	cmd.Flags().IntVar(&fixture, "fixture", 0, "fixture id (default: next fixture)")
	cmd.Flags().BoolVar(&noNews, "no-news", false, "ignore news signals")
	cmd.Flags().BoolVar(&noInjuries, "no-injuries", false, "ignore injury data")
	cmd.Flags().BoolVar(&noForm, "no-form", false, "ignore player form")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "ignore recent lineups")
	return cmd
}

func injuriesCmd(ctx context.Context, state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "injuries <team>",
		Short: "List injured and suspended players",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := state.service.TeamInjuries(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return state.print(cmd.OutOrStdout(), resp, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "PLAYER\tSTATUS\tSEVERITY\tDETAIL\n")
				for _, r := range resp.Injuries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.PlayerName, r.Status, r.Severity, r.Description)
				}
				tw.Flush()
				fmt.Fprintf(w, "\n%s: %d out, impact %.2f\n", resp.Team, resp.TotalInjured, resp.ImpactScore)
			})
		},
	}
}

func newsCmd(ctx context.Context, state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "news <team>",
		Short: "Show lineup signals extracted from recent news",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			insight, err := state.service.TeamNews(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return state.print(cmd.OutOrStdout(), insight, func(w io.Writer) {
				fmt.Fprintf(w, "Sources: %d (%s), confidence %.0f%%\n", insight.SourceCount, insight.SourceQuality.Rating, insight.Confidence*100)
				if insight.FormationHint != "" {
					fmt.Fprintf(w, "Formation hint: %s\n", insight.FormationHint)
				}
				writeBucket(w, "Likely starters", insight.LikelyStarters)
				writeBucket(w, "Doubtful", insight.Doubtful)
				writeBucket(w, "Ruled out", insight.RuledOut)
			})
		},
	}
}

func teamsCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List teams in the local directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			teams := state.teams.Teams()
			return state.print(cmd.OutOrStdout(), teams, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintf(tw, "ID\tTEAM\tCOUNTRY\tALIASES\n")
				for _, t := range teams {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Name, t.Country, strings.Join(t.Aliases, ", "))
				}
				tw.Flush()
			})
		},
	}
}

func writePrediction(w io.Writer, pred *models.LineupPrediction) {
	fmt.Fprintf(w, "%s  %s", pred.TeamName, pred.Formation)
	if pred.Opponent != "" {
		fmt.Fprintf(w, "  vs %s", pred.Opponent)
	}
	if pred.MatchDate != nil {
		fmt.Fprintf(w, "  %s", pred.MatchDate.Local().Format(time.RFC1123))
	}
	fmt.Fprintf(w, "\nConfidence: %.0f%%\n\n", pred.Confidence*100)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range pred.StartingXI {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.3f\n", p.Number, p.Name, p.Position, pred.PlayerScores[p.Name])
	}
	tw.Flush()

	if len(pred.Substitutes) > 0 {
		names := make([]string, 0, len(pred.Substitutes))
		for _, p := range pred.Substitutes {
			names = append(names, p.Name)
		}
		fmt.Fprintf(w, "\nBench: %s\n", strings.Join(names, ", "))
	}
	for _, u := range pred.Unavailable {
		fmt.Fprintf(w, "Out: %s (%s)\n", u.Player.Name, strings.Join(u.Reasons, ", "))
	}
	for _, note := range pred.KeyInsights {
		fmt.Fprintf(w, "• %s\n", note)
	}
}

func writeBucket(w io.Writer, label string, bucket map[string]float64) {
	if len(bucket) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", label)
	for _, name := range sortedKeys(bucket) {
		fmt.Fprintf(w, "  %s (%.0f%%)\n", name, bucket[name]*100)
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
