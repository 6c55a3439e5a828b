package cli

import (
	"github.com/spf13/cobra"
)

func (a *App) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shiftlyctl",
		Short:         "Operate a Shiftly server: connections, syncs, scheduled posts and jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to a JSON config file")
	pf.StringVarP(&a.addr, "addr", "a", "", "ops gRPC address (host:port)")
	pf.StringVar(&a.token, "token", "", "access token (prefer SHIFTLY_TOKEN)")

	root.AddCommand(
		a.pingCmd(),
		a.tokenCmd(),
		a.connectionsCmd(),
		a.postsCmd(),
		a.jobsCmd(),
	)
	return root
}
