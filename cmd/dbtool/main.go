package main

import (
	"context"
	"database/sql"
	"errors"
	"itinerary-service/internal/adapters/repositories"
	"itinerary-service/internal/config"
	"itinerary-service/internal/platform/db"
	"itinerary-service/internal/platform/obs"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	config.LoadDotEnv()

	logger, err := obs.NewLogger(config.Get("LOG_LEVEL", "info"))
	if err == nil {
		zap.ReplaceGlobals(logger)
		defer func() { _ = logger.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var databaseURL string

	root := &cobra.Command{
		Use:          "dbtool",
		Short:        "Manage the itinerary service database",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&databaseURL, "database-url", config.Get("DATABASE_URL", ""),
		"Postgres connection string (defaults to $DATABASE_URL)")

	root.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), databaseURL, func(ctx context.Context, conn *sql.DB) error {
				zap.L().Info("initializing database schema")
				if err := repositories.InitSchema(ctx, conn); err != nil {
					return err
				}
				zap.L().Info("schema ready")
				return nil
			})
		},
	})

	var seedPath string
	seed := &cobra.Command{
		Use:   "seed-interests",
		Short: "Load stored user interests from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			seeds, err := repositories.ReadInterestSeeds(seedPath)
			if err != nil {
				return err
			}
			return withDB(cmd.Context(), databaseURL, func(ctx context.Context, conn *sql.DB) error {
				if err := repositories.InitSchema(ctx, conn); err != nil {
					return err
				}
				repo := repositories.NewSQLPreferenceRepository(conn)
				if err := repositories.SeedInterests(ctx, repo, seeds); err != nil {
					return err
				}
				zap.L().Info("seeding complete", zap.Int("users", len(seeds)))
				return nil
			})
		},
	}
	seed.Flags().StringVar(&seedPath, "file", config.Get("SEED_PATH", "data/seeds/interests.json"),
		"path to the interests seed file")
	root.AddCommand(seed)

	return root
}

func withDB(ctx context.Context, databaseURL string, fn func(ctx context.Context, conn *sql.DB) error) error {
	if strings.TrimSpace(databaseURL) == "" {
		return errors.New("DATABASE_URL is required")
	}

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, conn)
}
