package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cthiebaud/bwv-zeug/config"
	"github.com/cthiebaud/bwv-zeug/constants"
	"github.com/cthiebaud/bwv-zeug/midi"
	"github.com/cthiebaud/bwv-zeug/table"
	"github.com/cthiebaud/bwv-zeug/timing"
)

var (
	extractInput  string
	extractOutput string
	extractConfig string
)

func init() {
	extractCmd.Flags().StringVar(&extractInput, "input", constants.ProjectFile("midi"),
		"input MIDI file")
	extractCmd.Flags().StringVar(&extractOutput, "output", constants.ProjectFile("notes.csv"),
		"output timing table")
	extractCmd.Flags().StringVar(&extractConfig, "config", constants.ProjectFile("config.yaml"),
		"project config with the audio duration")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extracts note events from a MIDI file onto the audio timeline",
	Long: `Reads the performance MIDI export and distributes its note events
linearly across the recorded audio duration, ignoring MIDI tempo.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(RunExtract(extractInput, extractOutput, extractConfig))
	},
}

func RunExtract(input, output, configPath string) error {
	if err := requirePath("input", input); err != nil {
		return err
	}
	if err := requirePath("output", output); err != nil {
		return err
	}
	if err := requirePath("config", configPath); err != nil {
		return err
	}

	project, err := config.Load(configPath)
	if err != nil {
		return err
	}
	duration := project.MusicalStructure.TotalDurationSeconds
	fmt.Printf("Target audio duration: %vs over %v bars (%.3fs per bar)\n",
		duration, project.MusicalStructure.TotalBars, project.SecondsPerBar())

	s, err := midi.ReadFile(input)
	if err != nil {
		return err
	}
	events, err := timing.Extract(s, duration)
	if err != nil {
		return err
	}

	if err := table.WriteNoteEvents(output, events); err != nil {
		return err
	}
	fmt.Printf("Wrote %v note events to %v\n", len(events), output)
	return nil
}
