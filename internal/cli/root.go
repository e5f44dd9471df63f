// Package cli implements the hsc command line: the HTTP and MCP servers,
// one-shot classification, migrations and feedback maintenance.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/health-signal-classifier/internal/app"
	"github.com/health-signal-classifier/internal/config"
	"github.com/health-signal-classifier/internal/logging"
)

// Version is set at build time.
var Version = "dev"

type root struct {
	v       *viper.Viper
	cfgFile string
}

// NewRootCommand builds the command tree. Each call uses its own viper
// instance.
func NewRootCommand() *cobra.Command {
	r := &root{v: viper.New()}

	cmd := &cobra.Command{
		Use:           "hsc",
		Short:         "Health signal classifier",
		Long:          "hsc classifies free-text health messages into likely diseases, scores environmental risk and serves both over HTTP and MCP.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&r.cfgFile, "config", "", "config file (default ./config.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("storage", "", "storage driver: none, sqlite or postgres")
	flags.String("data-dir", "", "directory for SQLite files")
	flags.String("redis-url", "", "Redis URL for the shared profile cache")

	r.bind(cmd, "logging.level", "log-level")
	r.bind(cmd, "storage.driver", "storage")
	r.bind(cmd, "storage.data_dir", "data-dir")
	r.bind(cmd, "cache.redis_url", "redis-url")

	cmd.AddCommand(
		r.serveCommand(),
		r.mcpCommand(),
		r.classifyCommand(),
		r.riskCommand(),
		r.outbreakCommand(),
		r.diseasesCommand(),
		r.statsCommand(),
		r.migrateCommand(),
		r.feedbackCommand(),
		r.setupCommand(),
	)
	return cmd
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

func (r *root) bind(cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if f == nil {
		panic("unknown flag " + flag)
	}
	if err := r.v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

// session is a loaded configuration with its logger.
type session struct {
	manager *config.Manager
	logger  *logrus.Logger
	closer  io.Closer
}

func (s *session) Close() error {
	return s.closer.Close()
}

// load reads the configuration. Commands that print results on stdout send
// logs to stderr.
func (r *root) load(logsToStderr bool) (*session, error) {
	manager, err := config.NewManagerFrom(r.v, r.cfgFile)
	if err != nil {
		return nil, err
	}
	if err := manager.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	logCfg := manager.GetConfig().Logging
	if logsToStderr && (logCfg.Output == "" || logCfg.Output == "stdout") {
		logCfg.Output = "stderr"
	}
	logger, closer, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}
	return &session{manager: manager, logger: logger, closer: closer}, nil
}

// withApp loads the configuration, assembles the application and runs fn.
func (r *root) withApp(ctx context.Context, opts app.Options, fn func(*app.App) error) error {
	s, err := r.load(true)
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := app.New(ctx, s.manager, s.logger, opts)
	if err != nil {
		return err
	}

	runErr := fn(a)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Close(closeCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
