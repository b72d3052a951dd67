package database

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"web3builder/config"
	"web3builder/internal/domain/billing"
	"web3builder/internal/domain/plans"
	"web3builder/internal/domain/referrals"
	"web3builder/internal/domain/users"
	"web3builder/internal/domain/website"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() {
	db, err := gorm.Open(postgres.Open(config.DB_URL), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(slogWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := Migrate(db); err != nil {
		slog.Error("auto-migrate failed", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("database connected and migrated")
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// accounts
		&users.User{},
		&referrals.Referral{},

		// billing
		&plans.SubscriptionPlan{},
		&billing.Payment{},
		&billing.UserSubscription{},

		// sites
		&website.Template{},
		&website.ContentBlock{},
		&website.Website{},
		&website.WebsiteContent{},
		&website.Analytics{},
	)
}

type slogWriter struct{}

func (slogWriter) Printf(format string, args ...interface{}) {
	slog.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}
