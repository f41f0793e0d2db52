package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maven-promote/internal/app"
	"maven-promote/internal/types"
)

type resolveOptions struct {
	Ordering string
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve <identifier>",
		Short: "Resolve latest, weekly, stable or a version prefix to one release version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Ordering, "ordering", string(types.VersionOrderingLexical), "Candidate ordering: lexical or semantic")
	_ = viper.BindPFlag("ordering", cmd.Flags().Lookup("ordering"))
	return cmd
}

func runResolve(ctx context.Context, cmd *cobra.Command, identifier string, opts resolveOptions) error {
	service := newAppService(loadConfig())
	result, err := service.Resolve(ctx, app.ResolveRequest{
		Identifier: identifier,
		Ordering:   types.VersionOrdering(resolveString(cmd, opts.Ordering, "ordering", "ordering")),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Version)
	return nil
}
