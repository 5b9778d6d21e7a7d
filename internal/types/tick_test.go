package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type TickTestSuite struct {
	suite.Suite
}

func TestTickSuite(t *testing.T) {
	suite.Run(t, new(TickTestSuite))
}

func (suite *TickTestSuite) TestMessageRoundTrip() {
	msg := TickMessage{Symbol: "BTC-USD", Price: 60123.45, Timestamp: 1717000000123}
	tick := msg.ToTick()

	suite.Equal("BTC-USD", tick.Symbol)
	suite.Equal(60123.45, tick.Price)
	suite.Equal(int64(1717000000123), tick.Time.UnixMilli())
	suite.Equal(time.UTC, tick.Time.Location())
	suite.Equal(msg, tick.Message())
}

func (suite *TickTestSuite) TestValidate() {
	valid := Tick{Symbol: "BTC-USD", Price: 1, Time: time.Now()}
	suite.NoError(valid.Validate())

	missingSymbol := Tick{Price: 1, Time: time.Now()}
	err := missingSymbol.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTick))

	missingTime := Tick{Symbol: "BTC-USD", Price: 1}
	suite.Error(missingTime.Validate())

	zeroPrice := Tick{Symbol: "BTC-USD", Time: time.Now()}
	suite.Error(zeroPrice.Validate())
}

func (suite *TickTestSuite) TestPrices() {
	ticks := []Tick{{Price: 1}, {Price: 2.5}, {Price: 3}}
	suite.Equal([]float64{1, 2.5, 3}, Prices(ticks))
	suite.Empty(Prices(nil))
}
