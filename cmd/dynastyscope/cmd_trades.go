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
)

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Suggest trades for one team from a fixture file",
	Long: `Run the analysis pass, then match the requesting team's desperate and
thin positions against every other team's surpluses. Ideas come back ranked
by confidence, strongest first.

Examples:
  dynastyscope trades --fixture league.json --team roster_4
  dynastyscope trades --fixture league.json --team roster_4 --json`,
	RunE: runTrades,
}

var (
	tradesFixture string
	tradesTeam    string
	tradesJSON    bool
)

func init() {
	rootCmd.AddCommand(tradesCmd)

	tradesCmd.Flags().StringVar(&tradesFixture, "fixture", "", "Path to the league fixture JSON")
	tradesCmd.Flags().StringVar(&tradesTeam, "team", "", "Requesting team ID")
	tradesCmd.Flags().BoolVar(&tradesJSON, "json", false, "Emit JSON instead of a table")
	tradesCmd.MarkFlagRequired("fixture")
	tradesCmd.MarkFlagRequired("team")
}

func runTrades(cmd *cobra.Command, args []string) error {
	input, err := fixture.Load(tradesFixture)
	if err != nil {
		return err
	}

	result := pipeline.Run(input)
	ideas, err := result.TradeIdeas(tradesTeam)
	if err != nil {
		return fmt.Errorf("%w: %q", err, tradesTeam)
	}

	if tradesJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		return json.NewEncoder(os.Stdout).Encode(ideas)
	}

	if len(ideas) == 0 {
		fmt.Println("No trade fits found for", tradesTeam)
		return nil
	}

	profile, _ := result.Team(tradesTeam)
	fmt.Printf("Trade ideas for %s (%s)\n\n", profile.Name, tradesTeam)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CONF\tGIVE\tGET\tPARTNER\tWHY")
	for _, idea := range ideas {
		fmt.Fprintf(w, "%.0f%%\t%s\t%s\t%s\t%s\n",
			idea.Confidence*100, idea.Give, idea.Get, idea.TargetTeamName, idea.Rationale)
	}
	w.Flush()
	return nil
}
