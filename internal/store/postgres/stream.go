package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/egdmrsy/TruBudget-SvKit/internal/ledger"
)

// Schema is the table StreamRepo reads. seq is assigned on append and
// defines write order within a (stream, item_key) pair.
const Schema = `CREATE TABLE IF NOT EXISTS stream_items (
	stream   TEXT   NOT NULL,
	item_key TEXT   NOT NULL,
	seq      BIGSERIAL,
	data     JSONB  NOT NULL,
	PRIMARY KEY (stream, item_key, seq)
)`

const (
	selectAllItems = `SELECT data FROM stream_items
		 WHERE stream = $1 AND item_key = $2
		 ORDER BY seq ASC`

	selectRecentItems = `SELECT data FROM (
		   SELECT seq, data FROM stream_items
		   WHERE stream = $1 AND item_key = $2
		   ORDER BY seq DESC
		   LIMIT $3
		 ) recent
		 ORDER BY seq ASC`
)

// StreamRepo implements ledger.Reader on top of stream_items.
type StreamRepo struct {
	pool *pgxpool.Pool
}

func NewStreamRepo(pool *pgxpool.Pool) *StreamRepo {
	return &StreamRepo{pool: pool}
}

var _ ledger.Reader = (*StreamRepo)(nil)

func (r *StreamRepo) ReadStreamItems(ctx context.Context, streamKey, itemKey string, count int) ([]ledger.Item, error) {
	query, args := StreamQuery(streamKey, itemKey, count)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("streamRepo.ReadStreamItems: %w", err)
	}
	defer rows.Close()

	return scanItems(rows, "streamRepo.ReadStreamItems")
}

// StreamQuery returns the query and arguments for one read.
func StreamQuery(streamKey, itemKey string, count int) (string, []any) {
	if count <= 0 {
		return selectAllItems, []any{streamKey, itemKey}
	}
	return selectRecentItems, []any{streamKey, itemKey, count}
}

func scanItems(rows pgx.Rows, caller string) ([]ledger.Item, error) {
	var items []ledger.Item
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		items = append(items, ledger.Item{Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return items, nil
}
