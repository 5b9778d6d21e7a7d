// Package alert holds the one-shot price alert logic: creation, listing
// and evaluation of live ticks against active alerts.
package alert

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/persistence"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"go.uber.org/zap"
)

// Service manages alerts on behalf of authenticated users.
type Service struct {
	store     persistence.AlertStore
	evaluator *Evaluator
	logger    *logger.Logger
	clock     func() time.Time
}

// NewService creates an alert service. evaluator may be nil, in which
// case new alerts become visible to evaluation on the next refresh.
func NewService(store persistence.AlertStore, evaluator *Evaluator, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		evaluator: evaluator,
		logger:    log,
		clock:     time.Now,
	}
}

// Create validates the request and stores a new ACTIVE alert owned by userID.
func (s *Service) Create(ctx context.Context, userID string, req types.CreateAlertRequest) (types.Alert, error) {
	if strings.TrimSpace(userID) == "" {
		return types.Alert{}, errors.New(errors.ErrCodeMissingParameter, "user id is required")
	}

	if err := req.Validate(); err != nil {
		return types.Alert{}, err
	}

	alert := types.Alert{
		ID:          uuid.New().String(),
		UserID:      userID,
		Symbol:      req.Symbol,
		Condition:   req.Condition,
		TargetPrice: req.TargetPrice,
		Status:      types.AlertStatusActive,
		CreatedAt:   s.clock().UTC(),
	}

	if err := s.store.CreateAlert(ctx, alert); err != nil {
		return types.Alert{}, errors.Wrap(errors.ErrCodeAlertPersistFailed, "failed to store alert", err)
	}

	s.logger.Info("Alert created",
		zap.String("alert_id", alert.ID),
		zap.String("user_id", userID),
		zap.String("symbol", alert.Symbol),
		zap.String("condition", string(alert.Condition)),
		zap.String("target_price", alert.TargetPrice.String()),
	)

	if s.evaluator != nil {
		s.evaluator.Admit(alert)
	}

	return alert, nil
}

// ListActive returns the ACTIVE alerts of one user.
func (s *Service) ListActive(ctx context.Context, userID string) ([]types.Alert, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "user id is required")
	}

	alerts, err := s.store.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to list alerts", err)
	}

	return alerts, nil
}
