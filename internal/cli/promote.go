package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maven-promote/internal/app"
	"maven-promote/internal/types"
)

type promoteOptions struct {
	Groups     []string
	Resolve    bool
	Ordering   string
	SearchBase string
	Action     actionOptions
}

func newPromoteCommand() *cobra.Command {
	opts := promoteOptions{}
	cmd := &cobra.Command{
		Use:   "promote <version>",
		Short: "Promote one version of each artifact group to the target repository",
		Long: `Promote copies (or moves) <group>/<version> directories from the source
repository to the target repository. Directories already present on the
target are skipped, so an interrupted run can simply be repeated.

Without --group the source repository is searched for every
<search-base>/*/<version> directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPromote(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Groups, "group", "g", nil, "Group path to promote, repeatable (e.g. /org/jenkins-ci/main/cli)")
	cmd.Flags().BoolVar(&opts.Resolve, "resolve", false, "Treat the argument as an identifier and resolve it first")
	cmd.Flags().StringVar(&opts.Ordering, "ordering", string(types.VersionOrderingLexical), "Candidate ordering used with --resolve")
	cmd.Flags().StringVar(&opts.SearchBase, "search-base", app.DefaultSearchBase, "Base path searched when no group is given")
	addActionFlags(cmd, &opts.Action)

	_ = viper.BindPFlag("groups", cmd.Flags().Lookup("group"))
	_ = viper.BindPFlag("resolve", cmd.Flags().Lookup("resolve"))
	_ = viper.BindPFlag("search_base", cmd.Flags().Lookup("search-base"))

	return cmd
}

func runPromote(ctx context.Context, cmd *cobra.Command, version string, opts promoteOptions) error {
	printer := newUnitPrinter(cmd.OutOrStdout())
	service := newAppService(loadConfig())
	service.OnUnit = printer.Unit
	result, err := service.Promote(ctx, app.PromoteRequest{
		Version:    version,
		Resolve:    resolveBool(cmd, opts.Resolve, "resolve", "resolve"),
		Ordering:   types.VersionOrdering(resolveString(cmd, opts.Ordering, "ordering", "ordering")),
		Groups:     resolveStrings(cmd, opts.Groups, "groups", "group"),
		SearchBase: resolveString(cmd, opts.SearchBase, "search_base", "search-base"),
		Options:    resolveActionOptions(cmd, opts.Action),
	})
	if err != nil {
		return err
	}
	printer.Summary(result.Report)
	return nil
}
