package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontsmith/pkg/settings"
)

func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [font-name]",
		Short: "Write a default fontsmith.toml into the source directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := settings.DefaultName
			if len(args) == 1 {
				name = args[0]
			}
			path, err := settings.Init(c.dir, name, force)
			if err != nil {
				return err
			}
			printSuccess("Created %s", path)
			printNextStep("Add SVG icons next to it, then run", appName+" build")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	return cmd
}
