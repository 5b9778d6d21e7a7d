package prediction

import (
	"context"

	"github.com/rxtech-lab/argo-streamer/internal/types"
)

// MinTicks is the smallest history the prediction service accepts.
const MinTicks = 10

// Predictor asks the external prediction service for a forecast.
// Failures are reported in the result, never as a panic or error return.
type Predictor interface {
	Predict(ctx context.Context, ticks []types.Tick) types.PredictionResult
}
