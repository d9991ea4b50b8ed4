package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"familyledger/config"
	"familyledger/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the configured database, migrates the schema and seeds the
// global categories.
func Init(cfg *config.Config) error {
	db, err := Open(cfg.Database)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := SeedDefaultCategories(db); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	DB = db
	log.Println("database initialized")
	return nil
}

// Open connects with the dialector named by cfg.Driver.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch strings.ToLower(cfg.Driver) {
	case "sqlite":
		return OpenSQLite(cfg.Path, cfg.LogMode)
	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBName, cfg.SSLMode)
		return openPooled(postgres.Open(dsn), cfg.LogMode)
	case "mysql", "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.Charset)
		return openPooled(mysql.Open(dsn), cfg.LogMode)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenSQLite opens a SQLite database at path. ":memory:" gives a private
// in-memory database pinned to a single connection.
func OpenSQLite(path string, logMode bool) (*gorm.DB, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig(logMode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// every pooled connection to :memory: would see its own empty database
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if memory {
		sqlDB.SetConnMaxLifetime(0)
	} else {
		_, _ = sqlDB.Exec("PRAGMA journal_mode = WAL;")
		_, _ = sqlDB.Exec("PRAGMA synchronous = NORMAL;")
	}
	return db, nil
}

func openPooled(dialector gorm.Dialector, logMode bool) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, gormConfig(logMode))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func gormConfig(logMode bool) *gorm.Config {
	gormLogger := logger.Default.LogMode(logger.Silent)
	if logMode {
		gormLogger = logger.Default.LogMode(logger.Info)
	}
	return &gorm.Config{
		Logger:                                   gormLogger,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// Migrate creates or updates every table the ledger uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Family{},
		&models.Category{},
		&models.CategoryUsage{},
		&models.Expense{},
		&models.Income{},
		&models.Budget{},
	)
}

// SeedDefaultCategories inserts the global categories when none exist yet.
func SeedDefaultCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Where("family_id IS NULL").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var cats []models.Category
	for i, d := range models.DefaultCategories() {
		cats = append(cats, models.Category{
			Name:      d.Name,
			Color:     d.Color,
			Sort:      (i + 1) * 10,
			IsDefault: true,
			Active:    true,
		})
	}
	return db.Create(&cats).Error
}

// GetDB returns the process-wide connection.
func GetDB() *gorm.DB {
	return DB
}
