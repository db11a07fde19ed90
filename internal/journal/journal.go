package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rickgao/raritywatch/internal/config"
	"github.com/rickgao/raritywatch/internal/model"
	"github.com/shopspring/decimal"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS rarity_alerts (
    id          UUID PRIMARY KEY,
    collection  TEXT NOT NULL,
    token_id    TEXT NOT NULL,
    price_eth   NUMERIC NOT NULL,
    traits      JSONB NOT NULL,
    delivered   BOOLEAN NOT NULL,
    sent_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS rarity_alerts_token_idx ON rarity_alerts (collection, token_id);
`

const insertSQL = `
INSERT INTO rarity_alerts (id, collection, token_id, price_eth, traits, delivered, sent_at)
VALUES ($1, $2, $3, $4::numeric, $5::jsonb, $6, $7)`

// Entry is one alert attempt.
type Entry struct {
	Collection string
	TokenID    string
	PriceETH   decimal.Decimal
	Traits     []model.NFTTrait // matching rare traits only
	Delivered  bool
}

// execer is the subset of pgxpool.Pool the journal writes through.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Journal appends alert entries to the rarity_alerts table.
type Journal struct {
	db     execer
	pool   *pgxpool.Pool
	logger *slog.Logger
	now    func() time.Time
}

// New creates a journal over an existing connection.
func New(db execer, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Open connects to the database and ensures the schema exists.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Journal, error) {
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	j := New(pool, logger)
	j.pool = pool

	if err := j.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	j.logger.Info("alert journal opened", "host", cfg.Host, "database", cfg.Name)
	return j, nil
}

// EnsureSchema creates the alert table if it is missing.
func (j *Journal) EnsureSchema(ctx context.Context) error {
	if _, err := j.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create rarity_alerts: %w", err)
	}
	return nil
}

// Record inserts one entry and returns its id.
func (j *Journal) Record(ctx context.Context, e Entry) (uuid.UUID, error) {
	traits := e.Traits
	if traits == nil {
		traits = []model.NFTTrait{}
	}
	traitsJSON, err := json.Marshal(traits)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal traits: %w", err)
	}

	id := uuid.New()
	_, err = j.db.Exec(ctx, insertSQL,
		id,
		e.Collection,
		e.TokenID,
		e.PriceETH.String(),
		string(traitsJSON),
		e.Delivered,
		j.now().UTC(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert alert %s: %w", e.TokenID, err)
	}

	j.logger.Debug("alert journaled", "alert_id", id, "token_id", e.TokenID, "delivered", e.Delivered)
	return id, nil
}

// Close releases the pool if the journal opened it.
func (j *Journal) Close() {
	if j.pool != nil {
		j.pool.Close()
	}
}
