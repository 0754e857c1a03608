package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cthiebaud/bwv-zeug/pitch"
	"github.com/cthiebaud/bwv-zeug/table"
	"github.com/cthiebaud/bwv-zeug/util"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <artifact>",
	Short: "Inspects a sync artifact",
	Long:  `Prints a summary of a synchronized animation artifact.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		cobra.CheckErr(inspect(args[0]))
	},
}

func inspect(path string) error {
	notes, err := table.ReadAligned(path)
	if err != nil {
		return err
	}

	var end int64
	classes := make(map[string]int)
	for _, n := range notes {
		if off := n.OnsetMs + n.DurationMs; off > end {
			end = off
		}
		classes[pitch.Class(n.Pitch)]++
	}

	fmt.Printf("notes: %v\n", len(notes))
	fmt.Printf("span: %.3fs\n", float64(end)/1000)
	for _, class := range util.SortedKeys(classes) {
		fmt.Printf("  %s: %v\n", class, classes[class])
	}
	return nil
}
