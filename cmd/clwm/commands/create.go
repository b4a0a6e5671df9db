package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/clwm/logger"
	"github.com/teranos/clwm/sym"
	"github.com/teranos/clwm/worldfile"
)

func newCreateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "create <file> <data-interface> <url>",
		Short: sym.World + " Create a new world file",
		Long: sym.World + ` create: Write a new world file and initialize its storage

The data interface names the storage backend (sqlite). For sqlite the url is
the database path, relative to the world file's directory.

Examples:
  clwm create world.clwm sqlite world.db`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := worldfile.ParseBackend(args[1])
			if err != nil {
				return err
			}
			file, err := worldfile.Create(args[0], backend, args[2])
			if err != nil {
				return err
			}

			store, err := file.Open(cmd.Context(), logger.ComponentLogger("storage"))
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s created world %s (%s %s)\n",
				sym.Success, file.Path(), file.DataInterface, file.DatabasePath())
			return nil
		},
	}
}
