package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-service/src/pkg/log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var ErrNotConnected = errors.New("database not connected")

type DBInterface interface {
	GetDB() (*sqlx.DB, error)
	Migrate(models ...interface{}) error
	Close() error
}

type connection struct {
	db *sqlx.DB
}

// InitConnection opens the pool described by the database.* keys. The DSN
// always enables parseTime so DATETIME columns scan into time.Time.
func InitConnection(v *viper.Viper, logger log.Log) (DBInterface, error) {
	dsn := v.GetString("database.dsn")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
			v.GetString("database.username"),
			v.GetString("database.password"),
			v.GetString("database.host"),
			v.GetInt("database.port"),
			v.GetString("database.name"),
		)
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(v.GetInt("database.pool.max"))
	db.SetMaxIdleConns(v.GetInt("database.pool.idle"))
	db.SetConnMaxLifetime(time.Duration(v.GetInt("database.pool.lifetime")) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	logger.Info("mysql", "connected to database", "InitConnection", v.GetString("database.host"))
	return &connection{db: db}, nil
}

// NewFromSQLX wraps an existing handle. Used by tests with sqlmock.
func NewFromSQLX(db *sqlx.DB) DBInterface {
	return &connection{db: db}
}

func (c *connection) GetDB() (*sqlx.DB, error) {
	if c == nil || c.db == nil {
		return nil, ErrNotConnected
	}
	return c.db, nil
}

// Migrate runs gorm's AutoMigrate over the shared connection pool.
func (c *connection) Migrate(models ...interface{}) error {
	db, err := c.GetDB()
	if err != nil {
		return err
	}
	gdb, err := gorm.Open(gormMysql.New(gormMysql.Config{
		Conn:                      db.DB,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)})
	if err != nil {
		return fmt.Errorf("open gorm: %w", err)
	}
	return gdb.AutoMigrate(models...)
}

func (c *connection) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
