package indicator

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type AggregatorTestSuite struct {
	suite.Suite
}

func TestAggregatorSuite(t *testing.T) {
	suite.Run(t, new(AggregatorTestSuite))
}

func (suite *AggregatorTestSuite) TestNewAggregatorRejectsInvalidPeriod() {
	_, err := NewAggregator(10, 0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func (suite *AggregatorTestSuite) TestPeriodsDeduplicatedAndSorted() {
	agg, err := NewAggregator(30, 10, 30)
	suite.Require().NoError(err)
	suite.Equal([]int{10, 30}, agg.Periods())
}

func (suite *AggregatorTestSuite) TestShortAndLongWindowsPerSymbol() {
	agg, err := NewAggregator(2, 4)
	suite.Require().NoError(err)

	for _, p := range []float64{1, 2, 3} {
		agg.Update("A", p)
	}

	suite.Equal(2.5, agg.CurrentAverage("A", 2).Unwrap())
	suite.True(agg.CurrentAverage("A", 4).IsNone())

	snap := agg.Update("A", 4)
	suite.Equal(3.5, snap.Average(2).Unwrap())
	suite.Equal(2.5, snap.Average(4).Unwrap())
	suite.Equal(4, snap.Count)
	suite.Equal(4.0, snap.LastPrice)
	suite.True(snap.Average(7).IsNone())
}

func (suite *AggregatorTestSuite) TestSymbolsAreIndependent() {
	agg, err := NewAggregator(2)
	suite.Require().NoError(err)

	agg.Update("A", 10)
	agg.Update("A", 20)
	agg.Update("B", 100)

	suite.Equal(15.0, agg.CurrentAverage("A", 2).Unwrap())
	suite.True(agg.CurrentAverage("B", 2).IsNone())
	suite.True(agg.CurrentAverage("C", 2).IsNone())

	_, ok := agg.Snapshot("C")
	suite.False(ok)
}

func (suite *AggregatorTestSuite) TestConcurrentWritersPerSymbolWithReaders() {
	agg, err := NewAggregator(5, 20)
	suite.Require().NoError(err)

	var wg sync.WaitGroup

	for s := 0; s < 8; s++ {
		symbol := fmt.Sprintf("S%d", s)

		wg.Add(2)

		go func() {
			defer wg.Done()

			for i := 1; i <= 500; i++ {
				agg.Update(symbol, float64(i))
			}
		}()

		go func() {
			defer wg.Done()

			for i := 0; i < 500; i++ {
				_, _ = agg.Snapshot(symbol)
				_ = agg.CurrentAverage(symbol, 5)
			}
		}()
	}

	wg.Wait()

	for s := 0; s < 8; s++ {
		snap, ok := agg.Snapshot(fmt.Sprintf("S%d", s))
		suite.Require().True(ok)
		suite.Equal(500, snap.Count)
		suite.Equal(498.0, snap.Average(5).Unwrap())
		suite.Equal(490.5, snap.Average(20).Unwrap())
	}
}
