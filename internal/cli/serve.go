package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fontsmith/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workspace over HTTP for interactive curation",
		Long: `Serve opens the source directory once and exposes it as a JSON API under
/api. Edits stay in memory until POST /api/save writes the config;
POST /api/build exports the fonts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.openProject(ctx, openOptions{noCache: noCache})
			if err != nil {
				return err
			}
			defer p.Close()

			coll := p.ws.Collection
			printKeyValue("Directory", c.dir)
			printKeyValue("Glyphs", strconv.Itoa(coll.Len()))
			printKeyValue("Selected", strconv.Itoa(len(coll.Selected())))
			printKeyValue("Listening", "http://"+addr+"/api")

			srv := server.New(p.runner, p.ws, loggerFromContext(ctx))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parsed-source cache")
	return cmd
}
