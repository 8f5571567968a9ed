package database

import (
	"fmt"
	"log"
	"net/url"

	"github.com/DrowningToast/sairahut-it20-sub000/internal/config"
	"github.com/DrowningToast/sairahut-it20-sub000/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	log.Printf("database connected (%s)", cfg.DBDriver)
	return db, nil
}

// OpenMemory opens a private in-memory sqlite database with the schema
// migrated and the hint catalog seeded.
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.QueryEscape(name))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open memory database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Freshman{},
		&models.Sophomore{},
		&models.HintSlug{},
		&models.SophomoreHint{},
		&models.Passcode{},
		&models.ResinPool{},
		&models.Pair{},
		&models.RevealedHint{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if err := SeedHintSlugs(db); err != nil {
		return err
	}
	log.Println("database migrated")
	return nil
}

// SeedHintSlugs inserts the fixed hint catalog, leaving existing slugs alone.
func SeedHintSlugs(db *gorm.DB) error {
	slugs := make([]models.HintSlug, len(models.DefaultHintSlugs))
	copy(slugs, models.DefaultHintSlugs)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&slugs).Error
	if err != nil {
		return fmt.Errorf("seed hint slugs: %w", err)
	}
	return nil
}
