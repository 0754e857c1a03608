package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bwv-zeug",
	Short: "Score animation sync tools",
	Long: `Turns a typeset score, its tie graph and a performance timing export
into one synchronized animation description.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// requirePath rejects an empty path flag with a hint instead of letting the
// open fail with a bare file name. Flags default to "" when PROJECT_NAME is
// not set by the build system.
func requirePath(flag, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required (or set PROJECT_NAME to use project file conventions)", flag)
	}
	return nil
}
