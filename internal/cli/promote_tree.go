package cli

import (
	"context"

	"github.com/spf13/cobra"

	"maven-promote/internal/app"
)

func newPromoteTreeCommand() *cobra.Command {
	opts := actionOptions{}
	cmd := &cobra.Command{
		Use:   "promote-tree <path>...",
		Short: "Promote whole repository paths and recalculate their Maven metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPromoteTree(cmd.Context(), cmd, args, opts)
		},
	}
	addActionFlags(cmd, &opts)
	return cmd
}

func runPromoteTree(ctx context.Context, cmd *cobra.Command, paths []string, opts actionOptions) error {
	printer := newUnitPrinter(cmd.OutOrStdout())
	service := newAppService(loadConfig())
	service.OnUnit = printer.Unit
	result, err := service.PromoteTree(ctx, app.PromoteTreeRequest{
		Paths:   paths,
		Options: resolveActionOptions(cmd, opts),
	})
	if err != nil {
		return err
	}
	printer.Summary(result.Report)
	return nil
}
