package repository

import (
	"context"
	"database/sql"
	"log/slog"

	_ "modernc.org/sqlite"

	"order-dispatch/internal/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS batches (
    id         TEXT PRIMARY KEY,
    filename   TEXT NOT NULL,
    layout     TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    batch_id   TEXT NOT NULL,
    idx        INTEGER NOT NULL,
    delivery   TEXT NOT NULL,
    customer   TEXT NOT NULL,
    items_text TEXT NOT NULL,
    phone      TEXT NOT NULL,
    address    TEXT NOT NULL,
    city       TEXT NOT NULL,
    zip_code   TEXT NOT NULL,
    PRIMARY KEY (batch_id, idx),
    FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS order_items (
    batch_id  TEXT NOT NULL,
    idx       INTEGER NOT NULL,
    item      TEXT NOT NULL,
    quantity  INTEGER NOT NULL,
    PRIMARY KEY (batch_id, idx, item),
    FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS discrepancies (
    batch_id TEXT NOT NULL,
    item     TEXT NOT NULL,
    computed INTEGER NOT NULL,
    expected INTEGER NOT NULL,
    FOREIGN KEY (batch_id) REFERENCES batches(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_batches_created_at ON batches(created_at);
`

// Open opens (or creates) the batch-history database and ensures the schema
// exists.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening history database", "path", path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "open database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "ping database")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "initialize schema")
	}

	logger.Info("history database ready")
	return db, nil
}

// Close closes the database connection gracefully
func Close(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close history database", "error", err)
	}
}
