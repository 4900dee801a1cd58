package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/storefront/internal/models"
)

var ErrUnsupportedDSN = errors.New("unsupported database url")

type poolConfig struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	connMaxIdleTime time.Duration
}

var (
	serverPool = poolConfig{
		maxOpenConns:    20,
		maxIdleConns:    10,
		connMaxLifetime: 30 * time.Minute,
		connMaxIdleTime: 5 * time.Minute,
	}
	// sqlite serialises writers; a single connection also keeps :memory: databases alive.
	sqlitePool = poolConfig{maxOpenConns: 1, maxIdleConns: 1}
)

func configurePool(sqlDB *sql.DB, pc poolConfig) {
	sqlDB.SetMaxOpenConns(pc.maxOpenConns)
	sqlDB.SetMaxIdleConns(pc.maxIdleConns)
	sqlDB.SetConnMaxLifetime(pc.connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pc.connMaxIdleTime)
}

// Dialector picks the gorm driver from the url scheme:
// postgres:// and postgresql:// (or key=value DSNs), mysql://, sqlite:// and file:.
func Dialector(dsn string) (gorm.Dialector, bool, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return postgres.Open(dsn), false, nil
	case strings.HasPrefix(dsn, "mysql://"):
		return mysql.Open(mysqlDSN(strings.TrimPrefix(dsn, "mysql://"))), false, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(dsn, "sqlite://")), true, nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return sqlite.Open(dsn), true, nil
	}
	return nil, false, fmt.Errorf("%w: %q", ErrUnsupportedDSN, scheme(dsn))
}

func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}

func scheme(dsn string) string {
	if i := strings.Index(dsn, "://"); i > 0 {
		return dsn[:i]
	}
	return "unknown"
}

func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	dialector, isSQLite, err := Dialector(dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    !isSQLite,
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if isSQLite {
		configurePool(sqlDB, sqlitePool)
	} else {
		configurePool(sqlDB, serverPool)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
