package main

import (
	"gorm.io/gorm"

	"github.com/heroines-gacha/fights/internal/config"
	"github.com/heroines-gacha/fights/internal/fight"
	"github.com/heroines-gacha/fights/internal/logging"
	"github.com/heroines-gacha/fights/internal/storage"
)

func loadConfigOrExit() config.Config {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Invalid environment configuration", err, nil)
	}
	return cfg
}

func loadCatalogOrExit(path string) *fight.Catalog {
	cat, err := config.LoadCatalog(path)
	if err != nil {
		logging.Fatal("Missing or invalid heroines catalog", err, logging.Fields{
			"catalog_path": path,
			"hint":         "create a heroines_catalog.json (or .yaml) with spells, allies, enemies, maps and stages",
		})
	}
	logging.Info("Catalog loaded", logging.Fields{
		"allies":  len(cat.Allies),
		"enemies": len(cat.Enemies),
		"stages":  len(cat.Stages),
	})
	return cat
}

func openDatabaseOrExit(path string) *gorm.DB {
	db, err := storage.OpenAndMigrate(path)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db_path": path})
	}
	return db
}
