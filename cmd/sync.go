package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cthiebaud/bwv-zeug/align"
	"github.com/cthiebaud/bwv-zeug/constants"
	"github.com/cthiebaud/bwv-zeug/squash"
	"github.com/cthiebaud/bwv-zeug/table"
)

// SyncOptions names the tables one sync run consumes and produces.
type SyncOptions struct {
	NoteHeads      string
	Timing         string
	Ties           string // optional alternate input when markers are not embedded
	Output         string
	MaxMismatchRun int
}

var syncOpts SyncOptions

func init() {
	syncCmd.Flags().StringVar(&syncOpts.NoteHeads, "noteheads", constants.ProjectFile("noteheads.csv"),
		"note head table from the geometry extractor")
	syncCmd.Flags().StringVar(&syncOpts.Timing, "timing", constants.ProjectFile("notes.csv"),
		"timing table from the timing extractor")
	syncCmd.Flags().StringVar(&syncOpts.Ties, "ties", "",
		"tie table, for note head tables without embedded markers")
	syncCmd.Flags().StringVar(&syncOpts.Output, "output", constants.ProjectFile("sync.json"),
		"output artifact")
	syncCmd.Flags().IntVar(&syncOpts.MaxMismatchRun, "max-mismatch-run", align.DefaultMaxMismatchRun,
		"consecutive pitch mismatches treated as structural misalignment")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Squashes tie chains and aligns notes with their timing",
	Long: `Collapses tied note heads into logical notes, pairs them positionally
with the performed note events and writes the synchronized animation artifact.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(RunSync(syncOpts))
	},
}

func RunSync(opts SyncOptions) error {
	if err := requirePath("noteheads", opts.NoteHeads); err != nil {
		return err
	}
	if err := requirePath("timing", opts.Timing); err != nil {
		return err
	}
	if err := requirePath("output", opts.Output); err != nil {
		return err
	}

	heads, err := table.ReadNoteHeads(opts.NoteHeads)
	if err != nil {
		return err
	}
	if opts.Ties != "" {
		ties, err := table.ReadTies(opts.Ties)
		if err != nil {
			return err
		}
		heads = squash.ApplyTies(heads, ties)
	}

	squashed, err := squash.Squash(heads)
	if err != nil {
		return err
	}
	fmt.Printf("Squashed %v note heads into %v logical notes\n", len(heads), len(squashed))

	events, err := table.ReadNoteEvents(opts.Timing)
	if err != nil {
		return err
	}

	aligned, warnings, err := align.Align(squashed, events, align.Options{MaxMismatchRun: opts.MaxMismatchRun})
	for _, w := range warnings {
		fmt.Printf("Warning: pitch mismatch at record %v: note %q vs event %q\n",
			w.Index, w.NotePitch, w.EventPitch)
	}
	if err != nil {
		return err
	}

	if err := table.WriteAligned(opts.Output, aligned); err != nil {
		return err
	}
	fmt.Printf("Wrote %v aligned notes to %v\n", len(aligned), opts.Output)
	return nil
}
