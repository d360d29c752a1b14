// Package cmd provides the buttonkit command-line interface.
//
// Configuration is read with this precedence, highest first:
//
//  1. command-line flags (--port, --log-level, ...)
//  2. BUTTONKIT_<SECTION>_<KEY> environment variables
//  3. the config file: --config, else BUTTONKIT_CONFIG_FILE, else
//     .buttonkit.yml in the current directory
//  4. built-in defaults
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/buttonkit/internal/config"
	"github.com/conneroisu/buttonkit/internal/logging"
)

// ConfigFileEnv names a config file when --config is not given.
const ConfigFileEnv = "BUTTONKIT_CONFIG_FILE"

// rootFlags are shared by every subcommand.
type rootFlags struct {
	cfgFile   string
	logLevel  string
	logFormat string
	viper     *viper.Viper
}

// NewRootCmd builds the command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{viper: viper.New()}

	cmd := &cobra.Command{
		Use:   "buttonkit",
		Short: "Render, preview and check the Button component",
		Long: `buttonkit renders the polymorphic Button component as HTML and ships the
tooling around it: a theme stylesheet, a YAML catalogue of stories, a markup
checker and a live-reloading preview server.

Quick Start:
  buttonkit render --text Save --loading     Render one button
  buttonkit stories init                      Write a starter stories.yml
  buttonkit check                             Audit every story
  buttonkit serve                             Start the preview server`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return flags.initConfig(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.cfgFile, "config", "",
		"config file (default is .buttonkit.yml, can also use "+ConfigFileEnv+" env var)")
	pf.StringVarP(&flags.logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "text", "log format (text, json)")
	pf.String("stories", "", "story file (default is "+config.DefaultStoriesPath+")")

	cmd.AddCommand(
		newRenderCmd(flags),
		newStoriesCmd(flags),
		newCheckCmd(flags),
		newCSSCmd(flags),
		newServeCmd(flags),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// initConfig selects the config file and enables environment overrides. A
// missing default file is not an error; a missing explicit one is.
func (f *rootFlags) initConfig(cmd *cobra.Command) error {
	v := f.viper

	explicit := f.cfgFile
	if explicit == "" {
		explicit = os.Getenv(ConfigFileEnv)
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".buttonkit")
	}

	config.BindEnv(v)

	if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	if err := v.BindPFlag("log.format", cmd.Flags().Lookup("log-format")); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// load binds the command's own flags and returns the validated config and
// its logger.
func (f *rootFlags) load(cmd *cobra.Command, bindings map[string]string) (*config.Config, logging.Logger, error) {
	for flag, key := range bindings {
		if fl := cmd.Flags().Lookup(flag); fl != nil {
			if err := f.viper.BindPFlag(key, fl); err != nil {
				return nil, nil, err
			}
		}
	}

	cfg, err := config.LoadFrom(f.viper)
	if err != nil {
		return nil, nil, err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
