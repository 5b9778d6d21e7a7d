package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
)

// SaveTick stores one tick. A tick without an ID gets a fresh UUID.
func (s *DuckDBStore) SaveTick(ctx context.Context, tick types.Tick) error {
	return s.SaveTicks(ctx, []types.Tick{tick})
}

// SaveTicks stores a batch of ticks in one transaction. The batch is
// rejected as a whole if any tick is invalid.
func (s *DuckDBStore) SaveTicks(ctx context.Context, ticks []types.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	insert := s.sq.Insert("ticks").Columns("id", "symbol", "price", "timestamp")

	for i := range ticks {
		tick := ticks[i]
		if err := tick.Validate(); err != nil {
			return err
		}

		if tick.ID == "" {
			tick.ID = uuid.New().String()
		}

		insert = insert.Values(tick.ID, tick.Symbol, tick.Price, tick.Time.UTC())
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build tick insert", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to begin transaction", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert ticks", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to commit ticks", err)
	}

	return nil
}

// TicksBetween returns the ticks of symbol with start <= timestamp <= end,
// oldest first.
func (s *DuckDBStore) TicksBetween(ctx context.Context, symbol string, start, end time.Time) ([]types.Tick, error) {
	query, args, err := s.sq.
		Select("id", "symbol", "price", "timestamp").
		From("ticks").
		Where(squirrel.And{
			squirrel.Eq{"symbol": symbol},
			squirrel.GtOrEq{"timestamp": start.UTC()},
			squirrel.LtOrEq{"timestamp": end.UTC()},
		}).
		OrderBy("timestamp ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build tick query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query ticks", err)
	}
	defer rows.Close()

	ticks := []types.Tick{}

	for rows.Next() {
		var tick types.Tick

		if err := rows.Scan(&tick.ID, &tick.Symbol, &tick.Price, &tick.Time); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan tick", err)
		}

		tick.Time = tick.Time.UTC()
		ticks = append(ticks, tick)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read ticks", err)
	}

	return ticks, nil
}

// CountTicks returns the number of stored ticks for symbol.
func (s *DuckDBStore) CountTicks(ctx context.Context, symbol string) (int, error) {
	query, args, err := s.sq.
		Select("COUNT(*)").
		From("ticks").
		Where(squirrel.Eq{"symbol": symbol}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count ticks", err)
	}

	return count, nil
}

// ExportTicks writes the tick table, ordered by time, to a parquet file.
func (s *DuckDBStore) ExportTicks(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		COPY (SELECT id, symbol, price, timestamp FROM ticks ORDER BY timestamp ASC)
		TO '%s' (FORMAT PARQUET)
	`, escapeLiteral(path)))
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to export ticks to parquet", err)
	}

	return nil
}

// ReadParquetTicks loads the ticks of symbol from a parquet file written by
// ExportTicks, oldest first. An empty symbol loads every row.
func (s *DuckDBStore) ReadParquetTicks(ctx context.Context, path string, symbol string) ([]types.Tick, error) {
	builder := s.sq.
		Select("id", "symbol", "price", "timestamp").
		From(fmt.Sprintf("read_parquet('%s')", escapeLiteral(path))).
		OrderBy("timestamp ASC")

	if symbol != "" {
		builder = builder.Where(squirrel.Eq{"symbol": symbol})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build parquet query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataNotFound, "failed to read parquet file", err)
	}
	defer rows.Close()

	ticks := []types.Tick{}

	for rows.Next() {
		var tick types.Tick

		if err := rows.Scan(&tick.ID, &tick.Symbol, &tick.Price, &tick.Time); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan parquet tick", err)
		}

		tick.Time = tick.Time.UTC()
		ticks = append(ticks, tick)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read parquet ticks", err)
	}

	return ticks, nil
}

func escapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
