package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/debemdeboas/draftboard/internal/autosave"
	"github.com/debemdeboas/draftboard/internal/client"
	"github.com/debemdeboas/draftboard/internal/config"
	"github.com/debemdeboas/draftboard/internal/logger"
)

type rootOptions struct {
	configPath string
	server     string
	logLevel   string

	in  io.Reader
	out io.Writer

	cfg *config.Config
	log zerolog.Logger
}

func (o *rootOptions) client() *client.Client {
	cc := o.cfg.Client
	if o.server != "" {
		cc.BaseURL = o.server
	}
	return client.NewFromConfig(cc)
}

func (o *rootOptions) autosaveOptions() []autosave.Option {
	return []autosave.Option{
		autosave.WithTimings(o.cfg.AutoSave),
		autosave.WithLogger(o.log),
	}
}

func newRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	opts := &rootOptions{in: in, out: out}

	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Manage blogs on a draftboard server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			level := cfg.Logging.Level
			if opts.logLevel != "" {
				level = opts.logLevel
			}
			// Diagnostics go to stderr so they never mix with the composer.
			opts.log = logger.New(level, logger.FormatConsole)
			client.SetLogger(logger.Component(opts.log, "client"))
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "Path to the configuration file")
	root.PersistentFlags().StringVarP(&opts.server, "server", "s", "", "Server URL (overrides client.base_url)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	root.AddCommand(
		newListCommand(opts),
		newShowCommand(opts),
		newDeleteCommand(opts),
		newStatsCommand(opts),
		newPublishCommand(opts),
		newComposeCommand(opts),
	)

	return root
}

func (o *rootOptions) printf(format string, a ...any) {
	fmt.Fprintf(o.out, format, a...)
}
