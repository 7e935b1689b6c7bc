package main

import (
	"context"
	"fmt"

	"neighborly/internal/db"
	"neighborly/internal/seed"
	"neighborly/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo profiles and needs",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		profileRepo := store.NewProfileRepository(pool)
		needsRepo := store.NewNeedRepository(pool)

		logrus.Info("Seeding profiles...")
		if err := seed.SeedFakeProfiles(ctx, profileRepo); err != nil {
			return fmt.Errorf("failed to seed profiles: %w", err)
		}

		logrus.Info("Seeding needs...")
		if err := seed.SeedFakeNeeds(ctx, needsRepo); err != nil {
			return fmt.Errorf("failed to seed needs: %w", err)
		}

		logrus.Info("Seed complete")
		return nil
	},
}
