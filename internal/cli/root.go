package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cbout22/latestlayer/internal/awsclient"
	"github.com/cbout22/latestlayer/internal/config"
	"github.com/cbout22/latestlayer/internal/logging"
	"github.com/cbout22/latestlayer/internal/macro"
	"github.com/cbout22/latestlayer/internal/resolver"
)

// version is set at build time via -ldflags.
var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCmd creates the top-level `latestlayer` command.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "latestlayer",
		Short: "Resolve the latest version ARN of an AWS Lambda layer",
		Long: `latestlayer is a CloudFormation macro that replaces a Lambda layer name
(or layer ARN) with the ARN of the layer's newest version, optionally
restricted to a compatible runtime.

Run 'latestlayer serve' as the Lambda entry point, or 'latestlayer resolve'
to try a lookup from your shell.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a TOML config file (default $"+config.ConfigPathEnvVar+" or "+config.DefaultConfigFile+")")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format: json or text")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newResolveCmd(flags))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command-line overrides.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Path(f.configPath))
	if err != nil {
		return nil, err
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newHandler builds the macro handler with a real Lambda client. Logs go
// to w.
func newHandler(ctx context.Context, cfg *config.Config, w io.Writer) (*macro.Handler, error) {
	logger, err := logging.New(w, cfg.LoggingOptions())
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	client, err := awsclient.NewLambdaClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return macro.NewHandler(resolver.New(client, logger), logger), nil
}
