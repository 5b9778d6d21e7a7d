package source

import (
	"context"
	"iter"
	"strconv"
	"strings"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
	"go.uber.org/zap"
)

// AggTradeService opens Binance aggregate trade streams. It is satisfied
// by the go-binance package functions and replaced in tests.
type AggTradeService interface {
	WsAggTradeServe(
		symbol string,
		handler binance.WsAggTradeHandler,
		errHandler binance.ErrHandler,
	) (doneC, stopC chan struct{}, err error)
}

type binanceAggTradeService struct{}

func (binanceAggTradeService) WsAggTradeServe(
	symbol string,
	handler binance.WsAggTradeHandler,
	errHandler binance.ErrHandler,
) (chan struct{}, chan struct{}, error) {
	return binance.WsAggTradeServe(symbol, handler, errHandler)
}

// Binance streams aggregate trades as ticks. Symbols maps exchange symbols
// (e.g. BTCUSDT) to the symbol stamped on the tick (e.g. BTC-USD).
type Binance struct {
	ws      AggTradeService
	symbols map[string]string
	buffer  int
	logger  *logger.Logger
}

func NewBinance(symbols map[string]string, log *logger.Logger) *Binance {
	return NewBinanceWithService(binanceAggTradeService{}, symbols, log)
}

func NewBinanceWithService(ws AggTradeService, symbols map[string]string, log *logger.Logger) *Binance {
	normalized := make(map[string]string, len(symbols))

	for exchange, symbol := range symbols {
		if symbol == "" {
			symbol = exchange
		}

		normalized[strings.ToUpper(exchange)] = symbol
	}

	return &Binance{
		ws:      ws,
		symbols: normalized,
		buffer:  256,
		logger:  log,
	}
}

type tradeOrError struct {
	tick types.Tick
	err  error
}

func (b *Binance) Stream(ctx context.Context) iter.Seq2[types.Tick, error] {
	return func(yield func(types.Tick, error) bool) {
		if len(b.symbols) == 0 {
			yield(types.Tick{}, errors.New(errors.ErrCodeInvalidConfiguration, "no binance symbols configured"))

			return
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		events := make(chan tradeOrError, b.buffer)
		stops := make([]chan struct{}, 0, len(b.symbols))

		defer func() {
			for _, stopC := range stops {
				close(stopC)
			}
		}()

		for exchange, symbol := range b.symbols {
			handler := b.handler(ctx, symbol, events)
			errHandler := func(err error) {
				select {
				case events <- tradeOrError{tick: types.Tick{}, err: errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "binance stream error", err)}:
				case <-ctx.Done():
				}
			}

			_, stopC, err := b.ws.WsAggTradeServe(strings.ToLower(exchange), handler, errHandler)
			if err != nil {
				yield(types.Tick{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to open binance stream for %s", exchange))

				return
			}

			stops = append(stops, stopC)

			b.logger.Info("Binance stream opened", zap.String("exchange_symbol", exchange), zap.String("symbol", symbol))
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				if !yield(ev.tick, ev.err) {
					return
				}
			}
		}
	}
}

func (b *Binance) handler(ctx context.Context, symbol string, events chan<- tradeOrError) binance.WsAggTradeHandler {
	return func(event *binance.WsAggTradeEvent) {
		tick, err := tradeToTick(symbol, event)

		select {
		case events <- tradeOrError{tick: tick, err: err}:
		case <-ctx.Done():
		}
	}
}

func tradeToTick(symbol string, event *binance.WsAggTradeEvent) (types.Tick, error) {
	price, err := strconv.ParseFloat(event.Price, 64)
	if err != nil {
		return types.Tick{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid trade price %q", event.Price)
	}

	ts := event.TradeTime
	if ts == 0 {
		ts = event.Time
	}

	return types.Tick{
		ID:     "",
		Symbol: symbol,
		Price:  price,
		Time:   time.UnixMilli(ts).UTC(),
	}, nil
}
