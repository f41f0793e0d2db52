package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the repository answers its liveness check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := newAppService(loadConfig())
			result, err := service.Ping(cmd.Context())
			if err != nil {
				return err
			}
			if result.ServerVersion != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s reachable (version %s)\n", result.URL, result.ServerVersion)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s reachable\n", result.URL)
			return nil
		},
	}
}
