package db

import (
	"context"
	"fmt"
	"net/url"

	"legal_aid_app_go/config"
	"legal_aid_app_go/db/migrations"
	"legal_aid_app_go/logger"
	"legal_aid_app_go/models"

	"github.com/rs/zerolog/log"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the primary (read-write) connection
var DB *gorm.DB

// ReadDB is an optional replica used by read-only reports
var ReadDB *gorm.DB

// Options selects the driver and connection strings
type Options struct {
	Driver      string // sqlite, postgres or libsql
	Path        string // sqlite file path
	URL         string // postgres DSN
	ReadURL     string // optional postgres replica DSN
	TursoURL    string
	TursoToken  string
	LogLevel    string
	Environment string
}

// OptionsFromConfig maps application config to connection options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Driver:      cfg.DBDriver,
		Path:        cfg.DBPath,
		URL:         cfg.DatabaseURL,
		ReadURL:     cfg.ReadDatabaseURL,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	}
}

// Initialize sets up the database connections for the configured driver
func Initialize(opts Options) error {
	gormCfg := func() *gorm.Config {
		return &gorm.Config{
			Logger:         logger.NewGormLogger(logger.MapGormLogLevel(opts.LogLevel)),
			TranslateError: true,
		}
	}

	dialector, err := dialectorFor(opts)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, gormCfg())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	ReadDB = nil
	if opts.Driver == "postgres" && opts.ReadURL != "" {
		ReadDB, err = gorm.Open(postgres.Open(opts.ReadURL), gormCfg())
		if err != nil {
			return fmt.Errorf("failed to connect to read replica: %w", err)
		}
		log.Info().Msg("Read replica connection established")
	}

	log.Info().Str("driver", opts.Driver).Msg("Database connection established")
	return nil
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "", "sqlite":
		// Enable WAL mode for better concurrency support
		return sqlite.Open(opts.Path + "?_journal_mode=WAL"), nil
	case "postgres":
		if opts.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		return postgres.Open(opts.URL), nil
	case "libsql":
		if opts.TursoURL == "" {
			return nil, fmt.Errorf("TURSO_DATABASE_URL is required for the libsql driver")
		}
		dsn := opts.TursoURL
		if opts.TursoToken != "" {
			dsn += "?authToken=" + url.QueryEscape(opts.TursoToken)
		}
		return sqlite.New(sqlite.Config{DriverName: "libsql", DSN: dsn}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// Reader returns the connection reports should read from
func Reader() *gorm.DB {
	if ReadDB != nil {
		return ReadDB
	}
	return DB
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.CaseOffice{},
		&models.CaseType{},
		&models.User{},
		&models.Token{},
		&models.Client{},
		&models.LegalCase{},
		&models.LegalCaseFile{},
		&models.CaseUpdate{},
		&models.Meeting{},
		&models.Note{},
		&models.Log{},
		&models.LogChange{},
	}
}

// Migrate brings the schema up to date. Postgres uses the versioned SQL migrations,
// sqlite and libsql are migrated from the models.
func Migrate(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if DB.Dialector.Name() == "postgres" {
		sqlDB, err := DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := migrations.Up(ctx, sqlDB); err != nil {
			return err
		}
		log.Info().Msg("Database migrations completed")
		return nil
	}

	return AutoMigrate(Models()...)
}

// AutoMigrate runs gorm migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := DB.AutoMigrate(models...)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("Database migrations completed")
	return nil
}

// Close closes the database connections
func Close() error {
	var firstErr error
	for _, conn := range []*gorm.DB{ReadDB, DB} {
		if conn == nil {
			continue
		}
		sqlDB, err := conn.DB()
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to get database instance: %w", err)
			}
			continue
		}
		if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
