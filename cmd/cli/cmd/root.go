package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pharmacy-dashboard/internal/api"
	cliapi "pharmacy-dashboard/internal/cli"
	"pharmacy-dashboard/internal/config"
	"pharmacy-dashboard/internal/logger"
)

const (
	appName = "pharmacy-dash"
	version = "1.0.0"
)

var errMissingCredentials = errors.New("credentials required: set --user and --password or PHARMA_DASH_CLI_USER and PHARMA_DASH_CLI_PASSWORD")

// flagKeys maps persistent flags to CLI configuration keys
var flagKeys = map[string]string{
	"api":       "api_endpoint",
	"format":    "format",
	"quiet":     "quiet",
	"no-color":  "no_color",
	"user":      "username",
	"password":  "password",
	"timeout":   "request_timeout",
	"threshold": "critical_threshold",
	"log-level": "log_level",
}

type rootOptions struct {
	configFile string
	envFile    string
}

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Terminal client for the pharmacy inventory dashboard",
		Long: `pharmacy-dash signs in to the pharmacy inventory dashboard API and shows
prescribed vs dispensed volumes, stockout rates and critical stock, either
as a one-shot report or as an interactive dashboard.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default: cli.yaml in ., ./config or ~/.pharmacy-dashboard)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before reading configuration")
	flags.String("api", "", "Dashboard API endpoint URL")
	flags.StringP("format", "f", "table", "Output format (table, json)")
	flags.BoolP("quiet", "q", false, "Quiet mode (minimal output)")
	flags.Bool("no-color", false, "Disable color output")
	flags.StringP("user", "u", "", "Username")
	flags.String("password", "", "Password")
	flags.String("timeout", "", "Request timeout, e.g. 30s (0 waits indefinitely)")
	flags.Float64("threshold", 0, "Default critical stock threshold in days of coverage")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newLoginCmd(opts),
		newMetadataCmd(opts),
		newSummaryCmd(opts),
		newDashboardCmd(opts),
		newCompletionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree. This is called by main.main().
func Execute() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration from the env file, the config file,
// PHARMA_DASH_CLI_* variables and the flags set on cmd, in rising priority.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*cliapi.Config, error) {
	if err := config.LoadEnvFile(o.envFile); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
	}
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, err
		}
	}
	return config.LoadCLIConfigWithViper(v)
}

// runtime is what every command needs once configuration is loaded
type runtime struct {
	cfg    *cliapi.Config
	out    *cliapi.OutputFormatter
	client *api.Client
	logger *logger.Logger
}

// initializeClient sets up configuration, formatter, logger and API client
func (o *rootOptions) initializeClient(cmd *cobra.Command) (*runtime, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), appName, "development", cfg.LogLevel)
	return &runtime{
		cfg: cfg,
		out: cliapi.NewOutputFormatter(cfg.Format, cfg.Quiet, cfg.NoColor, cmd.OutOrStdout(), cmd.ErrOrStderr()),
		client: api.NewClient(cfg.APIEndpoint,
			api.WithTimeout(cfg.RequestTimeout),
			api.WithLogger(log.WithComponent("api").Logger),
		),
		logger: log,
	}, nil
}

// withSpinner runs fn while a spinner is shown, unless output is meant for machines
func (rt *runtime) withSpinner(cmd *cobra.Command, message string, fn func() error) error {
	if !rt.cfg.Quiet && rt.cfg.Format != "json" {
		s := cliapi.NewProgressSpinner(message, rt.cfg.NoColor, cmd.ErrOrStderr())
		s.Start()
		defer s.Stop()
	}
	return fn()
}

// newSession signs in with the configured credentials and loads the lookups
func (rt *runtime) newSession(cmd *cobra.Command) (*cliapi.Session, error) {
	if !rt.cfg.HasCredentials() {
		return nil, errMissingCredentials
	}

	sess := cliapi.NewSession(rt.client, rt.cfg.CriticalThreshold, rt.logger.WithComponent("dashboard").Logger)
	err := rt.withSpinner(cmd, "Iniciando sesión", func() error {
		return sess.Login(cmd.Context(), rt.cfg.Username, rt.cfg.Password)
	})
	rt.out.PrintAlerts(sess.Page.Snapshot(true).Alerts)
	if err != nil {
		return nil, err
	}
	return sess, nil
}
