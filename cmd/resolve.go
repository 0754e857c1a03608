package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cthiebaud/bwv-zeug/constants"
	"github.com/cthiebaud/bwv-zeug/resolver"
	"github.com/cthiebaud/bwv-zeug/table"
)

var (
	resolveInput     string
	resolveMarkers   string
	resolveTies      string
	resolveHeuristic bool
)

func init() {
	resolveCmd.Flags().StringVar(&resolveInput, "input", constants.ProjectFile("score.json"),
		"renderer export (JSON)")
	resolveCmd.Flags().StringVar(&resolveMarkers, "markers", constants.ProjectFile("markers.csv"),
		"output tie marker table")
	resolveCmd.Flags().StringVar(&resolveTies, "ties", constants.ProjectFile("ties.csv"),
		"output tie table")
	resolveCmd.Flags().BoolVar(&resolveHeuristic, "heuristic", false,
		"force pitch-heuristic matching even when tie construct references are present")
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolves tie identities from a renderer export",
	Long: `Assigns note head ids and correlation references for every tie
construct, writing the marker and tie tables the downstream extractors need.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(RunResolve(resolveInput, resolveMarkers, resolveTies, resolveHeuristic))
	},
}

func RunResolve(input, markersOut, tiesOut string, forceHeuristic bool) error {
	if err := requirePath("input", input); err != nil {
		return err
	}
	if err := requirePath("markers", markersOut); err != nil {
		return err
	}
	if err := requirePath("ties", tiesOut); err != nil {
		return err
	}

	score, err := table.ReadScoreInput(input)
	if err != nil {
		return err
	}

	strategy := resolver.ForInput(score)
	if forceHeuristic {
		strategy = resolver.Heuristic{}
	}
	if _, ok := strategy.(resolver.Heuristic); ok && !forceHeuristic {
		fmt.Println("No tie construct references in export, falling back to pitch matching")
	}

	res, err := strategy.Resolve(score)
	if err != nil {
		return err
	}
	if len(res.Dropped) > 0 {
		fmt.Printf("Dropped %d tie starts with no resolvable end: %v\n", len(res.Dropped), res.Dropped)
	}

	if err := table.WriteTieMarkers(markersOut, res.Heads); err != nil {
		return err
	}
	if err := table.WriteTies(tiesOut, res.Ties); err != nil {
		return err
	}
	fmt.Printf("Resolved %v ties over %v note heads\n", len(res.Ties), len(res.Heads))
	return nil
}
