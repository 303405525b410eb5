package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"potato-chat/internal/channel"
	"potato-chat/internal/config"
	"potato-chat/internal/user"
)

var DB *gorm.DB

// Init opens the configured storage backend and migrates the schema.
// The driver choice (local sqlite file vs hosted postgres) is made here,
// once, at startup.
func Init(cfg *config.Config) error {
	var dialector gorm.Dialector
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.Storage.PostgresDSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Storage.SQLitePath)
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&user.User{}, &channel.Channel{}, &channel.Message{}); err != nil {
		return err
	}

	DB = db
	log.Printf("Database connected and migrated (%s)", cfg.Storage.Driver)

	return seedDefaults(db, cfg.Admin.Username)
}

// seedDefaults creates the default channels on first startup so the UI has
// a selection to land on: welcome (locked, with a greeting), general, and
// announcements (locked).
func seedDefaults(db *gorm.DB, adminUsername string) error {
	var count int64
	if err := db.Model(&channel.Channel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	welcome := channel.Channel{Name: "welcome", Locked: true}
	if err := db.Create(&welcome).Error; err != nil {
		return err
	}
	greeting := channel.Message{
		ChannelID: welcome.ID,
		Author:    adminUsername,
		Content:   "Welcome to Potato Server!",
	}
	if err := db.Create(&greeting).Error; err != nil {
		return err
	}
	if err := db.Create(&channel.Channel{Name: "general"}).Error; err != nil {
		return err
	}
	if err := db.Create(&channel.Channel{Name: "announcements", Locked: true}).Error; err != nil {
		return err
	}
	log.Printf("Seeded default channels")
	return nil
}
