package mocks

import (
	"testing"
)

func TestTickGenerator_Generate(t *testing.T) {
	gen := NewTickGenerator(42)
	config := DefaultConfig()
	config.Count = 100

	ticks := gen.Generate(config)

	if len(ticks) != 100 {
		t.Errorf("expected 100 ticks, got %d", len(ticks))
	}

	for i := 1; i < len(ticks); i++ {
		if ticks[i].Time.Sub(ticks[i-1].Time) != config.Interval {
			t.Errorf("unexpected interval at index %d", i)
		}
	}

	for i, tick := range ticks {
		if tick.Symbol != config.Symbol {
			t.Errorf("expected symbol %s at index %d, got %s", config.Symbol, i, tick.Symbol)
		}

		if tick.Price <= 0 {
			t.Errorf("non-positive price at index %d: %f", i, tick.Price)
		}
	}
}

func TestTickGenerator_Reproducibility(t *testing.T) {
	config := DefaultConfig()
	config.Count = 50

	first := NewTickGenerator(7).Generate(config)
	second := NewTickGenerator(7).Generate(config)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced different tick at index %d", i)
		}
	}
}

func TestTicksFromPrices(t *testing.T) {
	ticks := TicksFromPrices("X", 105, 102, 99)

	if len(ticks) != 3 {
		t.Fatalf("expected 3 ticks, got %d", len(ticks))
	}

	if ticks[2].Price != 99 || ticks[2].Symbol != "X" {
		t.Errorf("unexpected tick %+v", ticks[2])
	}

	if !ticks[1].Time.After(ticks[0].Time) {
		t.Errorf("ticks not in chronological order")
	}
}
