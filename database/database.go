package database

import (
	"fmt"

	"learnhub/config"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// DSN builds the driver specific connection string from config.
func DSN(cfg *config.Config) (string, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		), nil
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		), nil
	case "sqlite":
		return cfg.DBName, nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Open opens a gorm connection for the given driver without migrating.
func Open(driver, dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	if gormCfg == nil {
		gormCfg = &gorm.Config{}
	}
	// Unique violations surface as gorm.ErrDuplicatedKey on every driver.
	gormCfg.TranslateError = true
	return gorm.Open(dialector, gormCfg)
}

// ConnectDb establishes the connection, runs migrations and stores the handle globally
func ConnectDb(cfg *config.Config) (*gorm.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	db, err := Open(cfg.DBDriver, dsn, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	Database = DbInstance{Db: db}
	return db, nil
}

// Migrate performs database migrations
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.LoginTracking{},
		&models.TutorProfile{},
		&models.Category{},
		&models.Notification{},
		&models.MediaAsset{},
		&courseModels.Course{},
		&courseModels.CourseTag{},
		&courseModels.CourseModule{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.Review{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
