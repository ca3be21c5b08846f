package commands

import (
	"fmt"

	"github.com/justiceline/cdcr-records/internal/constants"
	"github.com/spf13/cobra"
)

func (a *App) installVersion() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Returns the version of " + constants.CmdName + " and exits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("%s\t%s\n", constants.CmdName, constants.Version)
			return nil
		},
	}
	a.cmd.AddCommand(cmd)
}
