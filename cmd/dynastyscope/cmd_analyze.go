package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dynastyscope/dynastyscope/internal/application/fixture"
	"github.com/dynastyscope/dynastyscope/internal/application/pipeline"
	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a league from a fixture file",
	Long: `Run the full analysis pass over a saved league fixture and print every
team's profile: behavioral signals, strategy classification, positional
needs, and draft-capital summary.

Examples:
  dynastyscope analyze --fixture league.json
  dynastyscope analyze --fixture league.json --team roster_4
  dynastyscope analyze --fixture league.json --json > profiles.json`,
	RunE: runAnalyze,
}

var (
	analyzeFixture string
	analyzeTeam    string
	analyzeJSON    bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFixture, "fixture", "", "Path to the league fixture JSON")
	analyzeCmd.Flags().StringVar(&analyzeTeam, "team", "", "Limit output to one team ID")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Emit JSON instead of a table")
	analyzeCmd.MarkFlagRequired("fixture")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input, err := fixture.Load(analyzeFixture)
	if err != nil {
		return err
	}

	result := pipeline.Run(input)

	profiles := result.Teams
	if analyzeTeam != "" {
		profile, err := result.Team(analyzeTeam)
		if err != nil {
			return fmt.Errorf("%w: %q", err, analyzeTeam)
		}
		profiles = []pipeline.TeamProfile{profile}
	}

	if analyzeJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		return json.NewEncoder(os.Stdout).Encode(profiles)
	}

	printProfiles(result, profiles)
	return nil
}

func printProfiles(result pipeline.Result, profiles []pipeline.TeamProfile) {
	fmt.Printf("League %s  (as of %s)\n\n", result.LeagueID, result.AsOf.Format("2006-01-02"))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, p := range profiles {
		fmt.Fprintf(w, "%s\t%s\n", p.Name, p.TeamID)
		fmt.Fprintf(w, "  strategy\t%s (%.0f%%)\t%s\n",
			p.Strategy.Label, p.Strategy.Confidence*100, p.Strategy.Rationale)
		fmt.Fprintf(w, "  activity\t%d adds / %d drops in %d days\ttrend %s\n",
			p.Signals.Adds, p.Signals.Drops, p.Signals.WindowDays, p.Signals.Trend)

		for _, pos := range roster.TrackedPositions {
			need, ok := p.Needs.Positions[pos]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  %s\t%s\t%d starters, %d bench\n",
				pos, need.State, need.Starters, need.Bench)
		}

		fmt.Fprintf(w, "  capital\t%.0f total / %.0f near-term\t%s %s",
			p.Capital.TotalValue, p.Capital.NearTermValue,
			p.Capital.Strength, p.Capital.Trend)
		if p.Capital.Comparison != "" {
			fmt.Fprintf(w, " (%s)", p.Capital.Comparison)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w)
	}
	w.Flush()
}
