package alert

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/rxtech-lab/argo-streamer/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type EvaluatorTestSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	store *mocks.MockAlertStore
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorTestSuite))
}

func (suite *EvaluatorTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.store = mocks.NewMockAlertStore(suite.ctrl)
}

func (suite *EvaluatorTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func newAlert(id, symbol string, condition types.AlertCondition, target float64) types.Alert {
	return types.Alert{
		ID:          id,
		UserID:      "user-" + id,
		Symbol:      symbol,
		Condition:   condition,
		TargetPrice: decimal.NewFromFloat(target),
		Status:      types.AlertStatusActive,
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func tick(symbol string, price float64) types.Tick {
	return types.Tick{ID: "", Symbol: symbol, Price: price, Time: time.Now()}
}

func (suite *EvaluatorTestSuite) TestBelowFiresOnceAtFirstStrictCross() {
	suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "X").
		Return([]types.Alert{newAlert("a1", "X", types.AlertConditionBelow, 100)}, nil).
		Times(1)

	evaluator := NewEvaluator(suite.store, time.Hour, logger.NewNop())

	var fired []types.Notification
	for _, price := range []float64{105, 102, 99, 95} {
		notifications := evaluator.Evaluate(context.Background(), tick("X", price))
		if price > 99 {
			suite.Empty(notifications, "price %v must not fire", price)
		}

		fired = append(fired, notifications...)
	}

	suite.Require().Len(fired, 1)
	suite.Equal("a1", fired[0].AlertID)
	suite.Equal("user-a1", fired[0].UserID)
	suite.Equal("ALERT: X is now below your target of $100.00. Current price: $99.00", fired[0].Message)

	// price recovers above the target
	suite.Empty(evaluator.Evaluate(context.Background(), tick("X", 101)))
	suite.Empty(evaluator.Evaluate(context.Background(), tick("X", 90)))
	suite.Empty(evaluator.Active("X"))
}

func (suite *EvaluatorTestSuite) TestEqualPriceNeverFires() {
	suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "BTC-USD").
		Return([]types.Alert{
			newAlert("above", "BTC-USD", types.AlertConditionAbove, 60000),
			newAlert("below", "BTC-USD", types.AlertConditionBelow, 60000),
		}, nil)

	evaluator := NewEvaluator(suite.store, time.Hour, logger.NewNop())
	suite.Empty(evaluator.Evaluate(context.Background(), tick("BTC-USD", 60000)))
	suite.Len(evaluator.Active("BTC-USD"), 2)
}

func (suite *EvaluatorTestSuite) TestAboveMessageUsesGrouping() {
	suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "BTC-USD").
		Return([]types.Alert{newAlert("a", "BTC-USD", types.AlertConditionAbove, 60000)}, nil)

	evaluator := NewEvaluator(suite.store, time.Hour, logger.NewNop())
	notifications := evaluator.Evaluate(context.Background(), tick("BTC-USD", 60100.5))

	suite.Require().Len(notifications, 1)
	suite.Equal("ALERT: BTC-USD is now above your target of $60,000.00. Current price: $60,100.50", notifications[0].Message)
}

func (suite *EvaluatorTestSuite) TestOtherSymbolsAreIgnored() {
	suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "ETH-USD").Return([]types.Alert{}, nil)

	evaluator := NewEvaluator(suite.store, time.Hour, logger.NewNop())
	suite.Empty(evaluator.Evaluate(context.Background(), tick("ETH-USD", 1)))
}

func (suite *EvaluatorTestSuite) TestRefreshDoesNotReadmitFiredAlert() {
	// the store still reports the alert ACTIVE, as after a failed trigger write
	suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "X").
		Return([]types.Alert{newAlert("a1", "X", types.AlertConditionBelow, 100)}, nil).
		Times(2)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	evaluator := NewEvaluator(suite.store, time.Minute, logger.NewNop())
	evaluator.clock = func() time.Time { return now }

	suite.Len(evaluator.Evaluate(context.Background(), tick("X", 99)), 1)

	now = now.Add(2 * time.Minute)
	suite.Empty(evaluator.Evaluate(context.Background(), tick("X", 98)))
	suite.Empty(evaluator.Active("X"))
}

func (suite *EvaluatorTestSuite) TestRefreshPicksUpNewAlerts() {
	first := suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "X").Return([]types.Alert{}, nil)
	suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "X").
		Return([]types.Alert{newAlert("late", "X", types.AlertConditionAbove, 10)}, nil).
		After(first)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	evaluator := NewEvaluator(suite.store, time.Minute, logger.NewNop())
	evaluator.clock = func() time.Time { return now }

	suite.Empty(evaluator.Evaluate(context.Background(), tick("X", 11)))

	// still cached
	now = now.Add(30 * time.Second)
	suite.Empty(evaluator.Evaluate(context.Background(), tick("X", 11)))

	now = now.Add(time.Minute)
	suite.Len(evaluator.Evaluate(context.Background(), tick("X", 11)), 1)
}

func (suite *EvaluatorTestSuite) TestRefreshFailureKeepsCurrentSet() {
	first := suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "X").
		Return([]types.Alert{newAlert("a1", "X", types.AlertConditionAbove, 100)}, nil)
	suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "X").
		Return(nil, fmt.Errorf("database is locked")).
		After(first)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	evaluator := NewEvaluator(suite.store, time.Minute, logger.NewNop())
	evaluator.clock = func() time.Time { return now }

	suite.Empty(evaluator.Evaluate(context.Background(), tick("X", 50)))

	now = now.Add(2 * time.Minute)
	suite.Len(evaluator.Evaluate(context.Background(), tick("X", 150)), 1)
}

func (suite *EvaluatorTestSuite) TestHungRefreshIsBounded() {
	first := suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "X").
		Return([]types.Alert{newAlert("a1", "X", types.AlertConditionBelow, 100)}, nil)
	suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "X").
		DoAndReturn(func(ctx context.Context, _ string) ([]types.Alert, error) {
			_, ok := ctx.Deadline()
			suite.True(ok)

			<-ctx.Done()

			return nil, ctx.Err()
		}).
		After(first)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	evaluator := NewEvaluator(suite.store, time.Minute, logger.NewNop())
	evaluator.refreshTimeout = 20 * time.Millisecond
	evaluator.clock = func() time.Time { return now }

	suite.Empty(evaluator.Evaluate(context.Background(), tick("X", 150)))

	now = now.Add(2 * time.Minute)
	start := time.Now()
	suite.Len(evaluator.Evaluate(context.Background(), tick("X", 50)), 1)
	suite.Less(time.Since(start), time.Second)
}

func (suite *EvaluatorTestSuite) TestAdmitMakesAlertVisibleImmediately() {
	suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "X").Return([]types.Alert{}, nil)

	evaluator := NewEvaluator(suite.store, time.Hour, logger.NewNop())
	suite.Empty(evaluator.Evaluate(context.Background(), tick("X", 1)))

	evaluator.Admit(newAlert("new", "X", types.AlertConditionAbove, 5))
	suite.Len(evaluator.Evaluate(context.Background(), tick("X", 6)), 1)

	// admitting a fired alert again has no effect
	evaluator.Admit(newAlert("new", "X", types.AlertConditionAbove, 5))
	suite.Empty(evaluator.Evaluate(context.Background(), tick("X", 7)))
}

func (suite *EvaluatorTestSuite) TestConcurrentTicksFireOnce() {
	suite.store.EXPECT().ListActiveBySymbol(gomock.Any(), "X").
		Return([]types.Alert{newAlert("a1", "X", types.AlertConditionBelow, 100)}, nil).
		AnyTimes()

	evaluator := NewEvaluator(suite.store, time.Hour, logger.NewNop())

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			n := len(evaluator.Evaluate(context.Background(), tick("X", 50)))

			mu.Lock()
			total += n
			mu.Unlock()
		}()
	}

	wg.Wait()
	suite.Equal(1, total)
}
