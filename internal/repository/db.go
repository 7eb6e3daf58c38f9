package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"

	"github.com/offerhub/offerhub-go/internal/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

// mysqlDuplicateEntry is the server error number for a unique constraint violation.
const mysqlDuplicateEntry = 1062

// NewDB creates a new MySQL database connection pool with the given DSN.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}

	slog.Info("applying migrations")
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// isDuplicateEntryError reports whether err is a MySQL unique constraint violation (code 1062).
func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// encodeJSON marshals v for a JSON column. Nil assets and empty asset lists are stored as NULL.
func encodeJSON(v any) (any, error) {
	switch t := v.(type) {
	case *model.AssetDescriptor:
		if t == nil {
			return nil, nil
		}
	case []model.AssetDescriptor:
		if len(t) == 0 {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func decodeAsset(data []byte) (*model.AssetDescriptor, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var asset model.AssetDescriptor
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("decode asset: %w", err)
	}
	return &asset, nil
}

func decodeAssets(data []byte) ([]model.AssetDescriptor, error) {
	assets := []model.AssetDescriptor{}
	if len(data) == 0 {
		return assets, nil
	}
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("decode assets: %w", err)
	}
	return assets, nil
}

func decodeDetails(data []byte) ([]model.Detail, error) {
	details := []model.Detail{}
	if len(data) == 0 {
		return details, nil
	}
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("decode details: %w", err)
	}
	return details, nil
}
