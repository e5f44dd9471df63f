package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/health-signal-classifier/internal/app"
	"github.com/health-signal-classifier/internal/database"
	"github.com/health-signal-classifier/internal/domain"
)

func (r *root) migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	run := func(up bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return r.withMigrations(func(runner *database.MigrationRunner) error {
				if up {
					return runner.Up()
				}
				return runner.Down()
			})
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", RunE: run(true)},
		&cobra.Command{Use: "down", Short: "Roll back all migrations", RunE: run(false)},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.withMigrations(func(runner *database.MigrationRunner) error {
					version, dirty, err := runner.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
					return nil
				})
			},
		},
	)
	return cmd
}

func (r *root) withMigrations(fn func(*database.MigrationRunner) error) error {
	s, err := r.load(true)
	if err != nil {
		return err
	}
	defer s.Close()

	runner, err := database.NewMigrationRunner(s.manager.GetDatabaseURL(), s.manager.GetConfig().Database.MigrationsPath, s.logger)
	if err != nil {
		return err
	}
	defer runner.Close()
	return fn(runner)
}

func (r *root) feedbackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Export, import and summarise clinician feedback",
	}

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write all feedback as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withFeedback(cmd, func(a *app.App) error {
				var w io.Writer = cmd.OutOrStdout()
				if out != "" && out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", out, err)
					}
					defer f.Close()
					w = f
				}
				return a.Feedback.ExportJSON(cmd.Context(), w)
			})
		},
	}
	export.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import feedback exported by another instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withFeedback(cmd, func(a *app.App) error {
				var in io.Reader = cmd.InOrStdin()
				if args[0] != "-" {
					f, err := os.Open(args[0])
					if err != nil {
						return fmt.Errorf("failed to open %s: %w", args[0], err)
					}
					defer f.Close()
					in = f
				}
				imported, skipped, err := a.Feedback.ImportJSON(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", imported, skipped)
				return nil
			})
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show agreement between suggested and confirmed diagnoses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withFeedback(cmd, func(a *app.App) error {
				agreement, err := a.Feedback.AgreementStats(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), agreement)
			})
		},
	}

	cmd.AddCommand(export, importCmd, stats)
	return cmd
}

func (r *root) withFeedback(cmd *cobra.Command, fn func(*app.App) error) error {
	return r.withApp(cmd.Context(), app.Options{}, func(a *app.App) error {
		if a.Feedback == nil {
			return fmt.Errorf("feedback needs storage; set storage.driver to %s or %s", domain.StorageSQLite, domain.StoragePostgres)
		}
		return fn(a)
	})
}
