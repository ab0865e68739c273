package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"claimequity/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var source string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply bias aggregate schema migrations",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&source, "source", "file://db/migrations", "migration source URL")

	open := func() (*migrate.Migrate, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		m, err := migrate.New(source, cfg.DB.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		return m, nil
	}

	withMigrate := func(fn func(m *migrate.Migrate, args []string) error) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(m, args)
		}
	}

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrate(func(m *migrate.Migrate, _ []string) error {
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration up failed: %w", err)
			}
			log.Info("migrations applied successfully")
			return nil
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert all migrations",
		RunE: withMigrate(func(m *migrate.Migrate, _ []string) error {
			if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration down failed: %w", err)
			}
			log.Info("migrations reverted successfully")
			return nil
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "steps N",
		Short: "Apply N migrations (negative to revert)",
		Args:  cobra.ExactArgs(1),
		RunE: withMigrate(func(m *migrate.Migrate, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid steps argument: %w", err)
			}
			if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migration steps failed: %w", err)
			}
			log.Infof("applied %d migration steps", n)
			return nil
		}),
	})

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: withMigrate(func(m *migrate.Migrate, _ []string) error {
			version, dirty, err := m.Version()
			if err != nil {
				return fmt.Errorf("failed to get version: %w", err)
			}
			fmt.Printf("version: %d, dirty: %v\n", version, dirty)
			return nil
		}),
	})

	return root
}
