package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var alertColumns = []string{"id", "user_id", "symbol", "alert_condition", "target_price", "status", "created_at"}

// CreateAlert stores a new alert. The status column is left to its
// default, so every stored alert starts ACTIVE.
func (s *DuckDBStore) CreateAlert(ctx context.Context, alert types.Alert) error {
	if alert.ID == "" || alert.UserID == "" || alert.Symbol == "" || alert.Condition == "" {
		return errors.New(errors.ErrCodeInvalidAlertRequest, "alert is missing required fields")
	}

	query, args, err := s.sq.
		Insert("alerts").
		Columns("id", "user_id", "symbol", "alert_condition", "target_price", "created_at").
		Values(alert.ID, alert.UserID, alert.Symbol, string(alert.Condition), alert.TargetPrice.String(), alert.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build alert insert", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert alert", err)
	}

	return nil
}

func (s *DuckDBStore) ListActiveByUser(ctx context.Context, userID string) ([]types.Alert, error) {
	return s.listAlerts(ctx, squirrel.Eq{"user_id": userID, "status": string(types.AlertStatusActive)})
}

func (s *DuckDBStore) ListActiveBySymbol(ctx context.Context, symbol string) ([]types.Alert, error) {
	return s.listAlerts(ctx, squirrel.Eq{"symbol": symbol, "status": string(types.AlertStatusActive)})
}

// GetAlert returns one alert regardless of status.
func (s *DuckDBStore) GetAlert(ctx context.Context, alertID string) (types.Alert, error) {
	alerts, err := s.listAlerts(ctx, squirrel.Eq{"id": alertID})
	if err != nil {
		return types.Alert{}, err
	}

	if len(alerts) == 0 {
		return types.Alert{}, errors.Newf(errors.ErrCodeAlertNotFound, "alert %s not found", alertID)
	}

	return alerts[0], nil
}

// MarkTriggered flips an ACTIVE alert to TRIGGERED. An alert that is
// already TRIGGERED is left alone; an unknown ID is ErrCodeAlertNotFound.
func (s *DuckDBStore) MarkTriggered(ctx context.Context, alertID string) error {
	query, args, err := s.sq.
		Update("alerts").
		Set("status", string(types.AlertStatusTriggered)).
		Where(squirrel.Eq{"id": alertID, "status": string(types.AlertStatusActive)}).
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build alert update", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to mark alert triggered", err)
	}

	affected, err := result.RowsAffected()
	if err != nil || affected > 0 {
		return nil //nolint:nilerr // the update itself succeeded
	}

	if _, err := s.GetAlert(ctx, alertID); err != nil {
		return err
	}

	s.logger.Debug("Alert already triggered", zap.String("alert_id", alertID))

	return nil
}

func (s *DuckDBStore) listAlerts(ctx context.Context, where squirrel.Eq) ([]types.Alert, error) {
	query, args, err := s.sq.
		Select(alertColumns...).
		From("alerts").
		Where(where).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build alert query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query alerts", err)
	}
	defer rows.Close()

	alerts := []types.Alert{}

	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}

		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read alerts", err)
	}

	return alerts, nil
}

func scanAlert(rows *sql.Rows) (types.Alert, error) {
	var (
		alert     types.Alert
		condition string
		target    string
		status    string
		createdAt time.Time
	)

	if err := rows.Scan(&alert.ID, &alert.UserID, &alert.Symbol, &condition, &target, &status, &createdAt); err != nil {
		return types.Alert{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan alert", err)
	}

	price, err := decimal.NewFromString(target)
	if err != nil {
		return types.Alert{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "alert %s has invalid target price %q", alert.ID, target)
	}

	alert.Condition = types.AlertCondition(condition)
	alert.TargetPrice = price
	alert.Status = types.AlertStatus(status)
	alert.CreatedAt = createdAt.UTC()

	return alert, nil
}
