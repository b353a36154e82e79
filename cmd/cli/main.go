package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tensorplex-labs/momentum/internal/config"
	"github.com/tensorplex-labs/momentum/internal/matchtable"
	"github.com/tensorplex-labs/momentum/internal/utils/logger"
	"github.com/tensorplex-labs/momentum/internal/viewerapi"
)

var (
	logLevel string
	timeout  time.Duration

	league   string
	team     string
	sigma    int
	outFile  string
	download bool

	api viewerapi.ViewerAPIInterface
	cfg *config.ClientEnvConfig
)

var rootCmd = &cobra.Command{
	Use:   "momentum",
	Short: "Query the match momentum viewer from the terminal",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.InitWithLevel(logLevel)

		var err error
		cfg, err = config.LoadClientEnv(cmd.Context())
		if err != nil {
			return fmt.Errorf("load client config: %w", err)
		}
		client, err := viewerapi.NewClient(cfg)
		if err != nil {
			return err
		}
		api = client
		return nil
	},
	SilenceUsage: true,
}

var leaguesCmd = &cobra.Command{
	Use:   "leagues",
	Short: "List the leagues of the match table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		resp, err := api.Leagues(ctx)
		if err != nil {
			return err
		}
		if !resp.HasLeague {
			fmt.Println("match table has no league column")
			return nil
		}
		for _, l := range resp.Leagues {
			fmt.Println(l)
		}
		return nil
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams of a league",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		teams, err := api.Teams(ctx, league)
		if err != nil {
			return err
		}
		for _, t := range teams {
			fmt.Println(t)
		}
		return nil
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the matches of a team",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		matches, err := api.Matches(ctx, league, team)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("No matches found for this team.")
			return nil
		}

		fmt.Println(matchesTable(matches))
		return nil
	},
}

func matchesTable(matches []matchtable.MatchOption) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return cellStyle
		}).
		Headers("MATCH ID", "MATCH")
	for _, m := range matches {
		t.Row(strconv.FormatInt(m.MatchID, 10), m.Label)
	}
	return t.String()
}

var exportCmd = &cobra.Command{
	Use:   "export <match-id>",
	Short: "Download the momentum chart of a match as PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid match id %q: %w", args[0], err)
		}
		return exportChart(cmd.Context(), matchID)
	},
}

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick league, team and match interactively, then export the chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := newPicker(cmd.Context(), api, timeout)
		final, err := tea.NewProgram(m).Run()
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}

		picked := final.(*picker)
		if picked.err != nil {
			return picked.err
		}
		if picked.matchID == 0 {
			return nil
		}
		return exportChart(cmd.Context(), picked.matchID)
	},
}

func exportChart(ctx context.Context, matchID int64) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	md, err := api.Momentum(ctx, matchID, sigma)
	if err != nil {
		return err
	}

	png, err := api.Chart(ctx, matchID, sigma, download)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = cfg.DefaultOutFile
	}
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	log.Info().Int64("match_id", matchID).Int("sigma", md.Sigma).Str("path", path).Msg("chart saved")
	fmt.Printf("%s\nsaved to %s (%d bytes)\n", md.Title(), path, len(png))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override: debug, trace or info")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	teamsCmd.Flags().StringVar(&league, "league", "", "League to list teams for")

	matchesCmd.Flags().StringVar(&league, "league", "", "League of the team")
	matchesCmd.Flags().StringVar(&team, "team", "", "Team to list matches for (required)")
	_ = matchesCmd.MarkFlagRequired("team")

	for _, c := range []*cobra.Command{exportCmd, pickCmd} {
		c.Flags().IntVar(&sigma, "sigma", 6, "Smoothing level (3-15)")
		c.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default from CLIENT_OUT_FILE)")
		c.Flags().BoolVar(&download, "hires", true, "Export at download resolution")
	}

	rootCmd.AddCommand(leaguesCmd, teamsCmd, matchesCmd, exportCmd, pickCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
