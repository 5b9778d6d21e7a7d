package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-streamer/pkg/errors"
)

// Tick is a single timestamped price observation for an instrument.
// Ticks are values and are never mutated after creation.
type Tick struct {
	ID     string    `yaml:"id" json:"id" csv:"id"`
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol" validate:"required"`
	Price  float64   `yaml:"price" json:"price" csv:"price" validate:"gt=0"`
	Time   time.Time `yaml:"timestamp" json:"timestamp" csv:"timestamp" validate:"required"`
}

// TickMessage is the wire form of a tick as delivered by the transport
// and forwarded unchanged on the live prices channel.
type TickMessage struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

// ToTick converts the wire form to a Tick. Timestamp is in epoch millis.
func (m TickMessage) ToTick() Tick {
	return Tick{
		ID:     "",
		Symbol: m.Symbol,
		Price:  m.Price,
		Time:   time.UnixMilli(m.Timestamp).UTC(),
	}
}

// Message returns the wire form of the tick.
func (t Tick) Message() TickMessage {
	return TickMessage{
		Symbol:    t.Symbol,
		Price:     t.Price,
		Timestamp: t.Time.UnixMilli(),
	}
}

// Validate checks the persistence constraints of a tick: symbol and
// timestamp must be set and the price must be positive.
func (t *Tick) Validate() error {
	if err := validator.New().Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTick, "invalid tick", err)
	}

	return nil
}

// Prices extracts the price column of a tick series.
func Prices(ticks []Tick) []float64 {
	prices := make([]float64, len(ticks))
	for i, t := range ticks {
		prices[i] = t.Price
	}

	return prices
}
