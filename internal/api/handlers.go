package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-streamer/internal/backtest"
	"github.com/rxtech-lab/argo-streamer/internal/broadcast"
	"github.com/rxtech-lab/argo-streamer/internal/signal"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

func (s *Server) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// requireUser reads the caller identity set by the auth proxy.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get(broadcast.UserHeader))
	if userID == "" {
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{
			Code:    int(errors.ErrCodeMissingParameter),
			Message: "missing " + broadcast.UserHeader + " header",
		})

		return "", false
	}

	return userID, true
}

// handleCreateAlert handles POST /api/alerts
func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req types.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidAlertRequest, "malformed alert request", err))

		return
	}

	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	created, err := s.deps.Alerts.Create(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, created)
}

// handleListAlerts handles GET /api/alerts
func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	alerts, err := s.deps.Alerts.ListActive(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)

		return
	}

	if alerts == nil {
		alerts = []types.Alert{}
	}

	s.writeJSON(w, http.StatusOK, alerts)
}

// handleBacktest handles GET /backtest/sma-crossover
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	query, err := parseBacktestQuery(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	result, err := s.deps.Backtests.RunSMACrossover(r.Context(), query)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func parseBacktestQuery(r *http.Request) (backtest.Query, error) {
	values := r.URL.Query()
	query := backtest.DefaultQuery()

	if raw := values.Get("range"); raw != "" {
		query.Range = raw
	}

	for name, target := range map[string]*int{
		"shortPeriod": &query.ShortPeriod,
		"longPeriod":  &query.LongPeriod,
	} {
		raw := values.Get(name)
		if raw == "" {
			continue
		}

		v, err := strconv.Atoi(raw)
		if err != nil {
			return backtest.Query{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid %s %q", name, raw)
		}

		*target = v
	}

	if raw := values.Get("initialBalance"); raw != "" {
		balance, err := decimal.NewFromString(raw)
		if err != nil {
			return backtest.Query{}, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid initialBalance %q", raw)
		}

		query.InitialBalance = balance
	}

	return query, nil
}

// handleHistory handles GET /history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		s.writeError(w, errors.New(errors.ErrCodeMissingParameter, "symbol is required"))

		return
	}

	rangeParam := r.URL.Query().Get("range")
	if rangeParam == "" {
		rangeParam = string(types.Range24h)
	}

	start, end := types.ResolveRange(rangeParam, s.clock())

	ticks, err := s.deps.Ticks.TicksBetween(r.Context(), symbol, start, end)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeQueryFailed, "failed to load history", err))

		return
	}

	if ticks == nil {
		ticks = []types.Tick{}
	}

	s.writeJSON(w, http.StatusOK, ticks)
}

// handleTestSignals handles GET /test-signals. It returns one signal per
// tick after the first.
func (s *Server) handleTestSignals(w http.ResponseWriter, r *http.Request) {
	end := s.clock()
	start := end.Add(-SignalWindow)

	ticks, err := s.deps.Ticks.TicksBetween(r.Context(), s.deps.Backtests.Symbol(), start, end)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeQueryFailed, "failed to load recent ticks", err))

		return
	}

	// index 0 has no predecessor, so the response starts at index 1
	signals := signal.SMACrossover(types.Prices(ticks), SignalShortPeriod, SignalLongPeriod)
	if len(signals) > 0 {
		signals = signals[1:]
	}

	s.writeJSON(w, http.StatusOK, signals)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.deps.Logger.Warn("Failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.deps.Logger.Error("Request failed", zap.Error(err))
	}

	s.writeJSON(w, status, errorResponse{
		Code:    int(errors.GetCode(err)),
		Message: err.Error(),
	})
}

func statusFor(err error) int {
	code := errors.GetCode(err)

	switch {
	case errors.IsValidation(err), code == errors.ErrCodeBacktestConfigError:
		return http.StatusBadRequest
	case code == errors.ErrCodeAlertNotFound, code == errors.ErrCodeDataNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeBacktestCancelled, code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
