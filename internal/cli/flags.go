package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maven-promote/internal/app"
	"maven-promote/internal/types"
)

type actionOptions struct {
	Mode           string
	DryRun         bool
	SuppressLayout bool
	FailFast       bool
	ReportPath     string
	LockPath       string
}

func addActionFlags(cmd *cobra.Command, opts *actionOptions) {
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", string(types.PromotionModeCopy), "Promotion method: copy or move")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Ask the repository to simulate every transfer")
	cmd.Flags().BoolVar(&opts.SuppressLayout, "suppress-layout", false, "Disable cross-layout path translation")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", true, "Abort a transfer on its first error")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "Write a YAML promotion report to this path")
	cmd.Flags().StringVar(&opts.LockPath, "lock-file", "", "Hold this host-local lock file while promoting")

	_ = viper.BindPFlag("mode", cmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("suppress_layout", cmd.Flags().Lookup("suppress-layout"))
	_ = viper.BindPFlag("fail_fast", cmd.Flags().Lookup("fail-fast"))
	_ = viper.BindPFlag("report", cmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("lock_file", cmd.Flags().Lookup("lock-file"))
}

func resolveActionOptions(cmd *cobra.Command, opts actionOptions) app.ActionOptions {
	return app.ActionOptions{
		Mode:           types.PromotionMode(strings.ToLower(resolveString(cmd, opts.Mode, "mode", "mode"))),
		DryRun:         resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
		SuppressLayout: resolveBool(cmd, opts.SuppressLayout, "suppress_layout", "suppress-layout"),
		FailFast:       resolveBool(cmd, opts.FailFast, "fail_fast", "fail-fast"),
		ReportPath:     resolveString(cmd, opts.ReportPath, "report", "report"),
		LockPath:       resolveString(cmd, opts.LockPath, "lock_file", "lock-file"),
	}
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
