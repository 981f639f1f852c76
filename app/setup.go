package app

import (
	"fmt"
	"os"

	"github.com/artsfest/artsfest-api/api"
	"github.com/artsfest/artsfest-api/config"
	"github.com/artsfest/artsfest-api/database"
	"github.com/artsfest/artsfest-api/router"
	"github.com/artsfest/artsfest-api/services/cron"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Seed baseline data (admin/organizer accounts, item catalogue,
	// site settings). Each seed skips itself when data already exists.
	if os.Getenv("SEED_ON_START") == "true" {
		if db, ok := store.GetDB().(*gorm.DB); ok {
			if err := database.NewSeeder(db).SeedAll(); err != nil {
				print("Warning: seeding failed: ", err.Error(), "\n")
			}
		}
	}

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup routes; this also builds the domain services
	svcs := router.SetupRoutes(app, store)

	// Cron jobs (default enabled)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" {
		if db, ok := store.GetDB().(*gorm.DB); ok {
			cronManager = cron.NewCronManager(db, svcs.Results, svcs.Blacklist)
			if err := cronManager.Start(); err != nil {
				print("Warning: Failed to start cron jobs\n")
				print("Error: ", err.Error(), "\n")
			}
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	return server.Run()
}
