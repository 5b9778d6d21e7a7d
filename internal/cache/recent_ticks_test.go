package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/stretchr/testify/suite"
)

type RecentTicksTestSuite struct {
	suite.Suite
	base time.Time
}

func TestRecentTicksSuite(t *testing.T) {
	suite.Run(t, new(RecentTicksTestSuite))
}

func (s *RecentTicksTestSuite) SetupTest() {
	s.base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *RecentTicksTestSuite) tick(symbol string, offset int, price float64) types.Tick {
	return types.Tick{
		ID:     "",
		Symbol: symbol,
		Price:  price,
		Time:   s.base.Add(time.Duration(offset) * time.Second),
	}
}

func (s *RecentTicksTestSuite) TestAddAndSize() {
	c := NewRecentTicks(5)

	s.Equal(1, c.Add(s.tick("BTC-USD", 0, 100)))
	s.Equal(2, c.Add(s.tick("BTC-USD", 1, 101)))
	s.Equal(1, c.Add(s.tick("ETH-USD", 0, 10)))

	s.Equal(2, c.Size("BTC-USD"))
	s.Equal(0, c.Size("SOL-USD"))
	s.Equal([]string{"BTC-USD", "ETH-USD"}, c.Symbols())
	s.Equal(5, c.Capacity())
}

func (s *RecentTicksTestSuite) TestEvictsOldest() {
	c := NewRecentTicks(DefaultCapacity)

	for i := 0; i < 20; i++ {
		c.Add(s.tick("BTC-USD", i, float64(100+i)))
	}

	recent := c.Recent("BTC-USD")
	s.Len(recent, DefaultCapacity)
	s.Equal(105.0, recent[0].Price)
	s.Equal(119.0, recent[len(recent)-1].Price)

	last, ok := c.Last("BTC-USD")
	s.True(ok)
	s.Equal(119.0, last.Price)
}

func (s *RecentTicksTestSuite) TestSameTimestampReplaces() {
	c := NewRecentTicks(5)

	c.Add(s.tick("BTC-USD", 0, 100))
	c.Add(s.tick("BTC-USD", 0, 101))

	recent := c.Recent("BTC-USD")
	s.Len(recent, 1)
	s.Equal(101.0, recent[0].Price)
}

func (s *RecentTicksTestSuite) TestOutOfOrderInsert() {
	c := NewRecentTicks(3)

	c.Add(s.tick("BTC-USD", 0, 100))
	c.Add(s.tick("BTC-USD", 2, 102))
	c.Add(s.tick("BTC-USD", 1, 101))
	c.Add(s.tick("BTC-USD", 3, 103))

	s.Equal([]float64{101, 102, 103}, types.Prices(c.Recent("BTC-USD")))
}

func (s *RecentTicksTestSuite) TestRecentIsACopy() {
	c := NewRecentTicks(3)
	c.Add(s.tick("BTC-USD", 0, 100))

	recent := c.Recent("BTC-USD")
	recent[0].Price = 1

	s.Equal(100.0, c.Recent("BTC-USD")[0].Price)
}

func (s *RecentTicksTestSuite) TestRange() {
	c := NewRecentTicks(10)
	for i := 0; i < 10; i++ {
		c.Add(s.tick("BTC-USD", i, float64(i)))
	}

	got := c.Range("BTC-USD", s.base.Add(3*time.Second), s.base.Add(5*time.Second))
	s.Equal([]float64{3, 4, 5}, types.Prices(got))
	s.Empty(c.Range("BTC-USD", s.base.Add(time.Hour), s.base.Add(2*time.Hour)))
	s.Empty(c.Range("ETH-USD", s.base, s.base.Add(time.Hour)))
}

func (s *RecentTicksTestSuite) TestZeroCapacity() {
	c := NewRecentTicks(0)
	s.Equal(0, c.Add(s.tick("BTC-USD", 0, 1)))

	_, ok := c.Last("BTC-USD")
	s.False(ok)
}

func (s *RecentTicksTestSuite) TestClear() {
	c := NewRecentTicks(3)
	c.Add(s.tick("BTC-USD", 0, 1))
	c.Clear()

	s.Equal(0, c.Size("BTC-USD"))
	s.Empty(c.Symbols())
}

func (s *RecentTicksTestSuite) TestConcurrentWritersAndReaders() {
	c := NewRecentTicks(DefaultCapacity)

	var wg sync.WaitGroup

	for _, symbol := range []string{"A", "B", "C", "D"} {
		wg.Add(2)

		go func(symbol string) {
			defer wg.Done()

			for i := 0; i < 200; i++ {
				c.Add(s.tick(symbol, i, float64(i)))
			}
		}(symbol)

		go func(symbol string) {
			defer wg.Done()

			for i := 0; i < 200; i++ {
				recent := c.Recent(symbol)
				for j := 1; j < len(recent); j++ {
					s.True(recent[j-1].Time.Before(recent[j].Time))
				}
			}
		}(symbol)
	}

	wg.Wait()

	for _, symbol := range []string{"A", "B", "C", "D"} {
		s.Equal(DefaultCapacity, c.Size(symbol))
	}
}
