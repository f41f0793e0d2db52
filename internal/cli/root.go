package cli

import (
	"errors"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"maven-promote/internal/app"
	"maven-promote/internal/shared"
)

// Set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const envPrefix = "MAVEN_REPOSITORY"

type RootConfig struct {
	ConfigFile  string
	LogLevel    string
	URL         string
	Username    string
	Password    string
	SourceRepo  string
	TargetRepo  string
	MetadataURL string
	TimeoutSec  int
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:          "maven-promote",
		Short:        "Resolve Maven release versions and promote artifacts between repositories",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	flags.StringVar(&cfg.URL, "url", app.DefaultURL, "Repository base URL")
	flags.StringVar(&cfg.Username, "username", "", "Repository username")
	flags.StringVar(&cfg.Password, "password", "", "Repository password or API token")
	flags.StringVar(&cfg.SourceRepo, "source", "", "Source repository key")
	flags.StringVar(&cfg.TargetRepo, "target", "", "Target repository key")
	flags.StringVar(&cfg.MetadataURL, "metadata-url", app.DefaultMetadataURL, "maven-metadata.xml URL used for version resolution")
	flags.IntVar(&cfg.TimeoutSec, "timeout", 0, "HTTP timeout in seconds (0 waits indefinitely)")

	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("url", flags.Lookup("url"))
	_ = viper.BindPFlag("username", flags.Lookup("username"))
	_ = viper.BindPFlag("password", flags.Lookup("password"))
	_ = viper.BindPFlag("source_name", flags.Lookup("source"))
	_ = viper.BindPFlag("target_name", flags.Lookup("target"))
	_ = viper.BindPFlag("metadata_url", flags.Lookup("metadata-url"))
	_ = viper.BindPFlag("timeout_sec", flags.Lookup("timeout"))

	cmd.AddCommand(newResolveCommand())
	cmd.AddCommand(newPromoteCommand())
	cmd.AddCommand(newPromoteTreeCommand())
	cmd.AddCommand(newPingCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("source_name", envPrefix+"_SOURCE_NAME", envPrefix+"_NAME")
	_ = viper.BindEnv("target_name", envPrefix+"_TARGET_NAME", envPrefix+"_PRODUCTION_NAME")

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("maven-promote")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/maven-promote")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func loadConfig() app.Config {
	return app.Config{
		URL:         viper.GetString("url"),
		Username:    viper.GetString("username"),
		Password:    viper.GetString("password"),
		SourceRepo:  viper.GetString("source_name"),
		TargetRepo:  viper.GetString("target_name"),
		MetadataURL: viper.GetString("metadata_url"),
		TimeoutSec:  viper.GetInt("timeout_sec"),
	}
}

// newAppService is swapped in tests.
var newAppService = app.NewService

func exitCodeForError(err error) int {
	code := errbuilder.CodeOf(err)
	message := errorMessage(err)
	switch code {
	case errbuilder.CodeInvalidArgument:
		return 1
	case errbuilder.CodeFailedPrecondition:
		if strings.HasPrefix(message, shared.LockHeldPrefix) {
			return 3
		}
		return 2
	case errbuilder.CodeNotFound:
		return 4
	case errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
